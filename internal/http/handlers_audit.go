package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
)

// AuthEventLister is the read side of the login audit trail.
type AuthEventLister interface {
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]domainauth.AuthEvent, error)
}

// AuditHandlers serves the login audit trail to administrators.
type AuditHandlers struct {
	Lister AuthEventLister
}

type auditEventPayload struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Kind      string `json:"kind"`
	Detail    string `json:"detail,omitempty"`
	At        string `json:"at"`
}

// Events handles GET /api/auth/events?user_id=<id>&limit=<n>.
func (h *AuditHandlers) Events(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_user_id",
			Err:     errors.New("user_id query parameter is required"),
		})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_limit",
				Err:     errors.New("limit must be a positive integer"),
			})
			return
		}
		limit = parsed
	}

	events, err := h.Lister.ListRecentByUser(r.Context(), userID, limit)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "audit_query_failed",
			Err:     errors.New("could not load audit events"),
		})
		return
	}

	payload := make([]auditEventPayload, 0, len(events))
	for _, ev := range events {
		payload = append(payload, auditEventPayload{
			ID:        ev.ID,
			SessionID: ev.SessionID,
			UserID:    ev.UserID,
			Kind:      string(ev.Kind),
			Detail:    ev.Detail,
			At:        ev.At.UTC().Format(time.RFC3339),
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"events": payload})
}
