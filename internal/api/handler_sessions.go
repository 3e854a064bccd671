package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"device-wizard-backend/internal/model"
	"device-wizard-backend/internal/wizard"
)

type actionRequest struct {
	Type          string `json:"type" binding:"required"`
	Device        string `json:"device"`
	WorkingStatus string `json:"workingStatus"`
	Decision      string `json:"decision"`
	ParticipantID string `json:"participantId"`
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(c *gin.Context) {
	id, sess := h.sessions.Create()
	h.renderStep(c, id, sess)
}

// GetSession handles GET /api/sessions/:id.
func (h *Handler) GetSession(c *gin.Context) {
	id := c.Param("id")
	sess, ok := h.sessions.Get(id)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.renderStep(c, id, sess)
}

// ApplyAction handles POST /api/sessions/:id/actions. This is the session
// driver: one action in, one pure transition, at most one side effect, then
// re-render.
func (h *Handler) ApplyAction(c *gin.Context) {
	id := c.Param("id")
	sess, ok := h.sessions.Get(id)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action := wizard.Action{
		Type:          wizard.ActionType(req.Type),
		Device:        req.Device,
		WorkingStatus: wizard.WorkingStatus(req.WorkingStatus),
		Decision:      wizard.Decision(req.Decision),
		ParticipantID: req.ParticipantID,
	}

	next, effect, err := wizard.Apply(sess, action)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, wizard.ErrSessionComplete) {
			status = http.StatusConflict
		}
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	if effect != nil {
		sub := &model.Submission{
			ParticipantID: effect.ParticipantID,
			Device:        deviceLabel(next),
			Decision:      string(next.Decision),
			WorkingStatus: string(next.WorkingStatus),
			WipeSkipped:   next.WipeSkippedWithWarning,
		}
		if err := h.store.AppendSubmission(c.Request.Context(), sub); err != nil {
			// Retryable: the session stays in ENTER_ID with no submitted id.
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "failed to record submission, please try again"})
			return
		}
		next = wizard.MarkSubmitted(next, effect.ParticipantID)
		if h.pool != nil {
			h.pool.Dispatch(sub.ID)
		}
	}

	h.sessions.Save(id, next)
	h.renderStep(c, id, next)
}
