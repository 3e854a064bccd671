package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"device-wizard-backend/config"
	"device-wizard-backend/internal/store"
)

// Service keeps the local price catalog in sync with the upstream workbook
// feed. It fetches all pages on an interval and upserts rows through the
// store.
type Service struct {
	cfg    *config.Config
	store  store.Store
	client *http.Client
}

// NewService creates and initializes a new catalog loader.
func NewService(cfg *config.Config, s store.Store) *Service {
	return &Service{
		cfg:   cfg,
		store: s,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Run starts the refresh loop. The first load happens immediately so the
// device list is available as soon as the server comes up.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Catalog.Enabled {
		log.Println("Catalog loader is disabled. Not starting.")
		return
	}
	log.Println("Starting catalog loader...")

	s.LoadOnce(ctx)

	timer := time.NewTimer(s.cfg.Catalog.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Catalog loader shutting down.")
			return
		case <-timer.C:
			s.LoadOnce(ctx)
			timer.Reset(s.cfg.Catalog.Interval)
		}
	}
}

// LoadOnce performs a single full fetch of the feed and persists the rows.
func (s *Service) LoadOnce(ctx context.Context) {
	log.Println("Refreshing price catalog...")

	var allRows []store.FeedRow
	total := 1
	pageSize := s.cfg.Catalog.Request.PageSize
	for page := 1; (page-1)*pageSize < total; page++ {
		resp, err := s.fetchPage(ctx, page)
		if err != nil {
			log.Printf("Error fetching catalog page %d: %v", page, err)
			break
		}
		if resp.Data.Total == 0 || len(resp.Data.Items) == 0 {
			break
		}
		total = resp.Data.Total
		allRows = append(allRows, resp.Data.Items...)
		log.Printf("Fetched catalog page %d, rows so far: %d", page, len(allRows))
	}

	// A failed or empty fetch keeps the previous catalog rather than
	// wiping the device list.
	if len(allRows) == 0 {
		log.Println("Catalog refresh finished with no rows; keeping existing catalog.")
		return
	}

	if err := s.store.UpsertPriceRows(ctx, allRows); err != nil {
		log.Printf("Error persisting catalog rows: %v", err)
		return
	}

	log.Printf("Catalog refresh finished: %d rows processed.", len(allRows))
}

// fetchPage fetches a single page of the workbook feed.
func (s *Service) fetchPage(ctx context.Context, page int) (*FeedResponse, error) {
	query := url.Values{}
	query.Set("page", fmt.Sprintf("%d", page))
	query.Set("pageSize", fmt.Sprintf("%d", s.cfg.Catalog.Request.PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Catalog.Request.URL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range s.cfg.Catalog.Request.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var feedResp FeedResponse
	if err := json.Unmarshal(body, &feedResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed response: %w", err)
	}

	if feedResp.Code != 0 {
		return nil, fmt.Errorf("feed returned non-zero application code: %d", feedResp.Code)
	}

	return &feedResp, nil
}
