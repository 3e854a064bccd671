package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"device-wizard-backend/internal/model"
)

var testDBSeq int

// newTestStore opens a private in-memory SQLite database with migrations run.
func newTestStore(t *testing.T) Store {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:storetest%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(&model.PriceRow{}, &model.Submission{}, &model.PushSubscription{}))
	return NewGormStore(db)
}

func seedFeed(t *testing.T, s Store, rows ...FeedRow) {
	t.Helper()
	require.NoError(t, s.UpsertPriceRows(context.Background(), rows))
}

func TestUpsertPriceRows_SkipsMalformedAndReplacesOffers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedFeed(t, s,
		FeedRow{Brand: "Apple", Device: "iPhone 12", Condition: "mint", TopPrice: 280, MSRP: "$799", LaunchYear: "2020"},
		FeedRow{Brand: "Apple", Device: "", Condition: "Mint", TopPrice: 100},        // empty device: skipped
		FeedRow{Brand: "Apple", Device: "iPhone 12", Condition: "New", TopPrice: 1}, // unknown tier: skipped
	)

	quote, err := s.LookupPrice(ctx, "iphone 12", "Mint")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, 280.0, quote.Price)
	assert.Equal(t, "$799", quote.MSRP)

	// A later feed cycle replaces the offer for the same (device, tier).
	seedFeed(t, s, FeedRow{Brand: "Apple", Device: "iPhone 12", Condition: "Mint", TopPrice: 300, MSRP: "$799", LaunchYear: "2020"})

	quote, err = s.LookupPrice(ctx, "iPhone 12", "mint")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, 300.0, quote.Price)

	devices, err := s.ListDevices(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"iPhone 12"}, devices)
}

func TestLookupPrice_MatchingIsNormalized(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedFeed(t, s, FeedRow{Brand: "Samsung", Device: "Galaxy S21", Condition: "Good", TopPrice: 180})

	quote, err := s.LookupPrice(ctx, "  galaxy   s21 ", " good ")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, "Galaxy S21", quote.Device)
	assert.Equal(t, "Good", quote.Condition)

	// Absence is not an error.
	quote, err = s.LookupPrice(ctx, "Nokia 3310", "Good")
	require.NoError(t, err)
	assert.Nil(t, quote)

	quote, err = s.LookupPrice(ctx, "Galaxy S21", "Pristine")
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestHighestOffer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Scenario A tiers: Mint 300, Good 250, Fair absent, Poor 100.
	seedFeed(t, s,
		FeedRow{Brand: "Apple", Device: "iPhone 12", Condition: "Mint", TopPrice: 300},
		FeedRow{Brand: "Apple", Device: "iPhone 12", Condition: "Good", TopPrice: 250},
		FeedRow{Brand: "Apple", Device: "iPhone 12", Condition: "Poor", TopPrice: 100},
	)

	best, err := s.HighestOffer(ctx, "iPhone 12")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 300.0, best.Price)
	assert.Equal(t, "Mint", best.Condition)

	// No tiers at all: no quote, no error.
	best, err = s.HighestOffer(ctx, "Nokia 3310")
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestHighestOffer_IgnoresZeroPrices(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedFeed(t, s,
		FeedRow{Brand: "Apple", Device: "iPhone 8", Condition: "Mint", TopPrice: 0},
		FeedRow{Brand: "Apple", Device: "iPhone 8", Condition: "Poor", TopPrice: 40},
	)

	best, err := s.HighestOffer(ctx, "iPhone 8")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 40.0, best.Price)
}

func TestAppendSubmission(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := &model.Submission{
		ParticipantID: "ABC123",
		Device:        "iPhone 12",
		Decision:      "resell",
		WorkingStatus: "working",
	}
	require.NoError(t, s.AppendSubmission(ctx, sub))
	assert.NotZero(t, sub.ID)
	assert.False(t, sub.CreatedAt.IsZero())

	// The sink enforces no uniqueness; a second append for the same
	// participant produces a second row.
	require.NoError(t, s.AppendSubmission(ctx, &model.Submission{
		ParticipantID: "ABC123",
		Device:        "iPhone 12",
		Decision:      "resell",
		WorkingStatus: "working",
	}))

	var count int64
	require.NoError(t, s.DB().Model(&model.Submission{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
