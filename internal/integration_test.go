package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"device-wizard-backend/config"
	"device-wizard-backend/internal/api"
	"device-wizard-backend/internal/catalog"
	"device-wizard-backend/internal/model"
	"device-wizard-backend/internal/store"
)

// TestWizardLifecycle walks a full session from the price-feed load to a
// recorded submission, and verifies the at-most-once sink guarantee across a
// back-then-forward revisit of the final step.
func TestWizardLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 1. In-memory SQLite database with migrations.
	testDB, err := gorm.Open(sqlite.Open("file:wizardintegration?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, testDB.AutoMigrate(&model.PriceRow{}, &model.Submission{}, &model.PushSubscription{}))

	// 2. Mock price workbook feed.
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var resp catalog.FeedResponse
		resp.Data.Total = 4
		resp.Data.Items = []store.FeedRow{
			{Brand: "Apple", Device: "iPhone 12", Condition: "Mint", TopPrice: 300, MSRP: "$799", LaunchYear: "2020"},
			{Brand: "Apple", Device: "iPhone 12", Condition: "Good", TopPrice: 250},
			{Brand: "Apple", Device: "iPhone 12", Condition: "Poor", TopPrice: 100},
			{Brand: "Samsung", Device: "Galaxy S21", Condition: "Mint", TopPrice: 220},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer feed.Close()

	cfg := &config.Config{
		Server: config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTLSeconds: 1},
		Catalog: config.CatalogConfig{
			Enabled: true,
			Request: config.CatalogRequest{URL: feed.URL, PageSize: 100},
		},
		Sessions: config.SessionConfig{},
	}

	// 3. Load the catalog once, then bring up the API.
	appStore := store.NewGormStore(testDB)
	catalog.NewService(cfg, appStore).LoadOnce(context.Background())

	sessions := store.NewSessionStore(0, 0)
	router := api.NewRouter(appStore, sessions, nil, nil, &cfg.Server)

	do := func(method, path string, body map[string]any) (int, map[string]any) {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var decoded map[string]any
		if len(w.Body.Bytes()) > 0 {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
		}
		return w.Code, decoded
	}

	// 4. Walk the happy path.
	code, view := do(http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, code)
	id := view["sessionId"].(string)
	assert.ElementsMatch(t, []any{"Galaxy S21", "iPhone 12"}, view["devices"])

	act := func(action map[string]any) (int, map[string]any) {
		return do(http.MethodPost, "/api/sessions/"+id+"/actions", action)
	}

	code, view = act(map[string]any{"type": "select_device", "device": "iPhone 12"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ask_working", view["state"])

	code, view = act(map[string]any{"type": "confirm_working", "workingStatus": "working"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "choose_option", view["state"])
	price := view["price"].(map[string]any)
	assert.Equal(t, true, price["available"])
	assert.Equal(t, 300.0, price["price"])

	code, _ = act(map[string]any{"type": "choose_decision", "decision": "resell"})
	require.Equal(t, http.StatusOK, code)
	code, _ = act(map[string]any{"type": "wipe_done"})
	require.Equal(t, http.StatusOK, code)
	code, _ = act(map[string]any{"type": "links_done"})
	require.Equal(t, http.StatusOK, code)

	code, view = act(map[string]any{"type": "submit_id", "participantId": "ABC123"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "done", view["state"])
	assert.Equal(t, "ABC123", view["submittedId"])

	var count int64
	require.NoError(t, testDB.Model(&model.Submission{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// 5. DONE is terminal: any further action conflicts, and no second row
	// ever reaches the sink.
	code, _ = act(map[string]any{"type": "back"})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = act(map[string]any{"type": "submit_id", "participantId": "ABC123"})
	assert.Equal(t, http.StatusConflict, code)

	require.NoError(t, testDB.Model(&model.Submission{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestWizardLifecycle_NotWorkingDevice covers the reduced option set and the
// wipe-skip warning path.
func TestWizardLifecycle_NotWorkingDevice(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:wizardintegration2?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, testDB.AutoMigrate(&model.PriceRow{}, &model.Submission{}, &model.PushSubscription{}))

	appStore := store.NewGormStore(testDB)
	require.NoError(t, appStore.UpsertPriceRows(context.Background(), []store.FeedRow{
		{Brand: "Samsung", Device: "Galaxy S21", Condition: "Mint", TopPrice: 220},
	}))

	serverCfg := &config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTLSeconds: 1}
	sessions := store.NewSessionStore(0, 0)
	router := api.NewRouter(appStore, sessions, nil, nil, serverCfg)

	do := func(method, path string, body map[string]any) (int, map[string]any) {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		var decoded map[string]any
		if len(w.Body.Bytes()) > 0 {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
		}
		return w.Code, decoded
	}

	_, view := do(http.MethodPost, "/api/sessions", nil)
	id := view["sessionId"].(string)

	act := func(action map[string]any) (int, map[string]any) {
		return do(http.MethodPost, "/api/sessions/"+id+"/actions", action)
	}

	_, _ = act(map[string]any{"type": "select_device", "device": "Galaxy S21"})
	code, view := act(map[string]any{"type": "confirm_working", "workingStatus": "not_working"})
	require.Equal(t, http.StatusOK, code)
	assert.ElementsMatch(t, []any{"donate", "recycle"}, view["options"])
	price := view["price"].(map[string]any)
	assert.Equal(t, false, price["available"])

	// Resell is rejected for a device that does not power on.
	code, _ = act(map[string]any{"type": "choose_decision", "decision": "resell"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	_, _ = act(map[string]any{"type": "choose_decision", "decision": "recycle"})
	code, view = act(map[string]any{"type": "wipe_unable"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "wipe_unable_warning", view["state"])
	assert.NotEmpty(t, view["warning"])

	code, view = act(map[string]any{"type": "proceed_anyway"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "show_links", view["state"])

	_, _ = act(map[string]any{"type": "links_done"})
	code, _ = act(map[string]any{"type": "submit_id", "participantId": "XYZ789"})
	require.Equal(t, http.StatusOK, code)

	var sub model.Submission
	require.NoError(t, testDB.First(&sub).Error)
	assert.Equal(t, "XYZ789", sub.ParticipantID)
	assert.Equal(t, "recycle", sub.Decision)
	assert.Equal(t, "not_working", sub.WorkingStatus)
	assert.True(t, sub.WipeSkipped)
}
