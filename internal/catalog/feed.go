package catalog

import "device-wizard-backend/internal/store"

// FeedResponse models the top-level structure of the price workbook feed.
// The feed publishes the resale workbook flattened to one row per
// (brand, device, condition).
type FeedResponse struct {
	Code int `json:"code"`
	Data struct {
		Page     int             `json:"page"`
		PageSize int             `json:"pageSize"`
		Total    int             `json:"total"`
		Items    []store.FeedRow `json:"items"`
	} `json:"data"`
}
