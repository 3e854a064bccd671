package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"device-wizard-backend/internal/model"
	"device-wizard-backend/internal/parse"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	UpsertPriceRows(ctx context.Context, rows []FeedRow) error
	ListDevices(ctx context.Context) ([]string, error)
	LookupPrice(ctx context.Context, device, condition string) (*PriceQuote, error)
	HighestOffer(ctx context.Context, device string) (*PriceQuote, error)
	AppendSubmission(ctx context.Context, sub *model.Submission) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers that query directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// UpsertPriceRows replaces the stored offers for every (device, condition)
// pair present in the feed page. Rows with an unknown tier or an empty device
// are skipped with a log line rather than failing the batch.
func (s *gormStore) UpsertPriceRows(ctx context.Context, rows []FeedRow) error {
	var toUpsert []model.PriceRow
	for _, row := range rows {
		key := parse.NormalizeDevice(row.Device)
		tier := parse.NormalizeCondition(row.Condition)
		if key == "" {
			log.Printf("Skipping feed row with empty device (brand %q)", row.Brand)
			continue
		}
		if !ValidTier(tier) {
			log.Printf("Skipping feed row for %q: unknown condition %q", row.Device, row.Condition)
			continue
		}
		toUpsert = append(toUpsert, model.PriceRow{
			DeviceKey:  key,
			Condition:  tier,
			Device:     row.Device,
			Brand:      row.Brand,
			TopPrice:   row.TopPrice,
			MSRP:       row.MSRP,
			LaunchYear: row.LaunchYear,
		})
	}

	if len(toUpsert) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_key"}, {Name: "condition"}},
			DoUpdates: clause.AssignmentColumns([]string{"device", "brand", "top_price", "msrp", "launch_year", "updated_at"}),
		}).Create(&toUpsert).Error
	})
}

// ListDevices returns the unique device display names across all brand
// sheets. No ordering is guaranteed; callers sort for display.
func (s *gormStore) ListDevices(ctx context.Context) ([]string, error) {
	var devices []string
	if err := s.db.WithContext(ctx).
		Model(&model.PriceRow{}).
		Distinct("device").
		Pluck("device", &devices).Error; err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

// LookupPrice returns the offer for a device at one condition tier.
// Matching is case-insensitive and whitespace-trimmed. A missing row or an
// unknown tier yields (nil, nil), not an error.
func (s *gormStore) LookupPrice(ctx context.Context, device, condition string) (*PriceQuote, error) {
	key := parse.NormalizeDevice(device)
	tier := parse.NormalizeCondition(condition)
	if key == "" || !ValidTier(tier) {
		return nil, nil
	}

	var row model.PriceRow
	err := s.db.WithContext(ctx).
		Where("device_key = ? AND condition = ?", key, tier).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("price lookup failed for %q (%s): %w", device, tier, err)
	}

	return &PriceQuote{
		Device:     row.Device,
		Condition:  row.Condition,
		Price:      row.TopPrice,
		MSRP:       row.MSRP,
		LaunchYear: row.LaunchYear,
		Brand:      row.Brand,
	}, nil
}

// HighestOffer queries each condition tier in priority order and returns the
// maximum successfully retrieved offer. Per-tier failures are skipped; if no
// tier yields a positive price the result is (nil, nil).
func (s *gormStore) HighestOffer(ctx context.Context, device string) (*PriceQuote, error) {
	var best *PriceQuote
	for _, tier := range ConditionTiers {
		quote, err := s.LookupPrice(ctx, device, tier)
		if err != nil {
			log.Printf("Skipping tier %s for %q: %v", tier, device, err)
			continue
		}
		if quote == nil || quote.Price <= 0 {
			continue
		}
		if best == nil || quote.Price > best.Price {
			best = quote
		}
	}
	return best, nil
}

// AppendSubmission appends one finalized record to the submission sink.
func (s *gormStore) AppendSubmission(ctx context.Context, sub *model.Submission) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to append submission for %q: %w", sub.ParticipantID, err)
	}
	return nil
}
