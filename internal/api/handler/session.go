package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dafitra/prompt-to-app/internal/api/response"
	"github.com/dafitra/prompt-to-app/internal/domain"
	"github.com/dafitra/prompt-to-app/internal/service"
	"github.com/go-chi/chi/v5"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type createSessionRequest struct {
	Project map[string]any `json:"project"`
}

// Create runs the full session pipeline and returns the composed result.
// Optional enrichment fields may be absent; there is no other
// partial-success encoding.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "project required")
		return
	}
	if req.Project == nil {
		response.BadRequest(w, "project required")
		return
	}

	result, err := h.sessionService.Create(r.Context(), req.Project)
	if err != nil {
		response.InternalError(w, "server_error", err.Error())
		return
	}

	response.OK(w, result)
}

// Get returns the stored session record
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.sessionService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w)
			return
		}
		response.InternalError(w, "server_error", err.Error())
		return
	}

	response.OK(w, session)
}

type updateSessionRequest struct {
	Patch map[string]any `json:"patch"`
}

// Update applies a partial patch to the session data; subscribers of the
// session's channel receive the merged result.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "patch required")
		return
	}
	if req.Patch == nil {
		response.BadRequest(w, "patch required")
		return
	}

	session, err := h.sessionService.Update(r.Context(), id, req.Patch)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w)
			return
		}
		response.InternalError(w, "server_error", err.Error())
		return
	}

	response.OK(w, session)
}
