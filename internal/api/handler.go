package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"device-wizard-backend/internal/notification"
	"device-wizard-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	sessions *store.SessionStore
	webpush  *webpush.Options
	pool     *notification.WorkerPool
}

// NewHandler creates a new API handler. The worker pool may be nil when push
// notifications are not configured.
func NewHandler(s store.Store, sessions *store.SessionStore, webpushOptions *webpush.Options, pool *notification.WorkerPool) *Handler {
	return &Handler{
		store:    s,
		sessions: sessions,
		webpush:  webpushOptions,
		pool:     pool,
	}
}
