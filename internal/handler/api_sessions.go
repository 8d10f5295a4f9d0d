package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/conversation"
	"github.com/infinitydev4/reenove-sub000/internal/domain"
	"github.com/infinitydev4/reenove-sub000/internal/metrics"
	"github.com/infinitydev4/reenove-sub000/internal/middleware"
	"github.com/infinitydev4/reenove-sub000/internal/validation"
)

// turnRequest is the JSON body of a conversation turn.
type turnRequest struct {
	Message   string   `json:"message"`
	ImageURLs []string `json:"image_urls,omitempty"`
}

// recordResponse exposes the project record of a session.
type recordResponse struct {
	SessionID uuid.UUID            `json:"session_id"`
	Record    domain.ProjectRecord `json:"record"`
}

// stateResponse exposes the dialogue state of a session.
type stateResponse struct {
	SessionID  uuid.UUID                `json:"session_id"`
	State      domain.ConversationState `json:"state"`
	CreatedAt  time.Time                `json:"created_at"`
	LastActive time.Time                `json:"last_active"`
}

// HandleTurn processes one user turn of a conversation.
// POST /api/sessions/{id}/turns
func (h *Handler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.parseSessionID(w, r)
	if !ok {
		return
	}

	if h.errorRates != nil {
		h.errorRates.RecordRequest()
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if h.errorRates != nil {
			h.errorRates.RecordError(metrics.ErrorCategoryHTTP)
		}
		APIError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	v := validation.NewTurnRequestValidator()
	v.ValidateAll(req.Message, req.ImageURLs)
	if !v.IsValid() {
		if h.errorRates != nil {
			h.errorRates.RecordError(metrics.ErrorCategoryValidation)
		}
		APIValidationError(w, r, v.Errors())
		return
	}

	_, existed := h.orchestrator.Session(sessionID)

	start := time.Now()
	result := h.orchestrator.ProcessTurn(r.Context(), conversation.TurnInput{
		SessionID: sessionID,
		Message:   req.Message,
		ImageURLs: req.ImageURLs,
	})
	duration := time.Since(start)

	requestID := middleware.GetRequestID(r.Context())
	if !existed {
		if h.auditLogger != nil {
			h.auditLogger.SessionCreated(r.Context(), sessionID.String(), r.RemoteAddr, requestID)
		}
		if h.metrics != nil {
			h.metrics.RecordSessionCreated()
		}
		if h.businessEvents != nil {
			h.businessEvents.SessionStarted(r.Context(), sessionID)
		}
	}
	if h.metrics != nil {
		h.metrics.RecordTurn(string(result.Intent), string(result.Action), duration)
		if len(result.Suggestions) > 0 {
			h.metrics.RecordSuggestionsServed()
		}
	}
	if h.businessEvents != nil {
		h.businessEvents.TurnProcessed(r.Context(), sessionID, string(result.Intent), string(result.Action), duration)
		if len(req.ImageURLs) > 0 {
			h.businessEvents.PhotoAnalyzed(r.Context(), sessionID, len(req.ImageURLs), result.PhotoAnalysis != "")
		}
	}
	if result.Estimate != nil {
		if h.auditLogger != nil {
			h.auditLogger.EstimateGenerated(r.Context(), sessionID.String(), requestID, duration.Milliseconds())
		}
		if h.businessEvents != nil {
			h.businessEvents.EstimateGenerated(r.Context(), sessionID,
				string(result.Record.Category()), result.Estimate.Min, result.Estimate.Max, duration)
		}
	}

	h.logger.Info("turn processed",
		zap.String("session_id", sessionID.String()),
		zap.String("intent", string(result.Intent)),
		zap.String("action", string(result.Action)),
		zap.Duration("duration", duration),
	)

	JSONWithRequest(w, r, http.StatusOK, result)
}

// HandleReset restarts a session from an empty record.
// POST /api/sessions/{id}/reset
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.parseSessionID(w, r)
	if !ok {
		return
	}

	result := h.orchestrator.Reset(r.Context(), sessionID)

	if h.auditLogger != nil {
		h.auditLogger.SessionReset(r.Context(), sessionID.String(), r.RemoteAddr, middleware.GetRequestID(r.Context()))
	}
	if h.metrics != nil {
		h.metrics.RecordSessionReset()
	}
	if h.businessEvents != nil {
		h.businessEvents.SessionReset(r.Context(), sessionID)
	}

	JSONWithRequest(w, r, http.StatusOK, result)
}

// HandleRecord returns the project record collected so far.
// GET /api/sessions/{id}/record
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.parseSessionID(w, r)
	if !ok {
		return
	}

	sess, ok := h.orchestrator.Session(sessionID)
	if !ok {
		APIError(w, r, http.StatusNotFound, "session not found")
		return
	}

	snap := sess.Snapshot()
	JSONWithRequest(w, r, http.StatusOK, recordResponse{
		SessionID: snap.ID,
		Record:    snap.Record,
	})
}

// HandleState returns the dialogue state of a session.
// GET /api/sessions/{id}/state
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.parseSessionID(w, r)
	if !ok {
		return
	}

	sess, ok := h.orchestrator.Session(sessionID)
	if !ok {
		APIError(w, r, http.StatusNotFound, "session not found")
		return
	}

	snap := sess.Snapshot()
	JSONWithRequest(w, r, http.StatusOK, stateResponse{
		SessionID:  snap.ID,
		State:      snap.State,
		CreatedAt:  snap.CreatedAt,
		LastActive: snap.LastActive,
	})
}

// parseSessionID extracts and validates the session id path parameter.
func (h *Handler) parseSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		APIError(w, r, http.StatusBadRequest, "session id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
