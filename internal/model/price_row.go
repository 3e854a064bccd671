package model

import "time"

// PriceRow holds one resale offer for a (device, condition) pair, as published
// by the price workbook feed. Brand is the name of the source sheet.
type PriceRow struct {
	DeviceKey  string  `gorm:"primaryKey;size:256"` // normalized device name
	Condition  string  `gorm:"primaryKey;size:32"`  // Mint / Good / Fair / Poor
	Device     string  `gorm:"size:256;not null"`   // display name as published
	Brand      string  `gorm:"size:128;not null"`
	TopPrice   float64 `gorm:"not null"`
	MSRP       string  `gorm:"size:64"`
	LaunchYear string  `gorm:"size:16"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
