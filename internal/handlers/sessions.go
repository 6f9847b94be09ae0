package handlers

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/terrascope/canvas/internal/canvas"
	"github.com/terrascope/canvas/internal/models"
	"github.com/terrascope/canvas/internal/session"
	"github.com/terrascope/canvas/internal/store"
)

type SessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// StateResponse pairs the store snapshot with the canvas view, which may
// diverge from the store after view-only gestures.
type StateResponse struct {
	SessionID    string              `json:"sessionId"`
	Store        store.State         `json:"store"`
	SelectedNode *models.ServiceNode `json:"selectedNode"`
	Canvas       canvas.View         `json:"canvas"`
}

type SelectAppRequest struct {
	AppID string `json:"appId" validate:"max=128"`
}

type AppsResponse struct {
	Apps []models.App `json:"apps"`
}

func newSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{ID: s.ID, CreatedAt: s.CreatedAt, LastSeen: s.LastSeen()}
}

func newStateResponse(s *session.Session) StateResponse {
	resp := StateResponse{
		SessionID: s.ID,
		Store:     s.Store.State(),
		Canvas:    s.Canvas.View(),
	}
	if node, ok := s.Store.SelectedNode(); ok {
		resp.SelectedNode = &node
	}
	return resp
}

func (h *Handler) ListApps(w http.ResponseWriter, r *http.Request) {
	apps, err := h.sessions.Provider().ListApps(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, errors.Wrap(err, "listing apps"))
		return
	}
	writeJSON(w, r, http.StatusOK, AppsResponse{Apps: apps})
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	writeJSON(w, r, http.StatusCreated, newSessionResponse(s))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, newSessionResponse(sessionFrom(r)))
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(sessionFrom(r).ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, newStateResponse(sessionFrom(r)))
}

// SelectApp starts loading the requested app. With ?wait=true the response
// is written once the graph has been applied or the load failed.
func (h *Handler) SelectApp(w http.ResponseWriter, r *http.Request) {
	var req SelectAppRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	s := sessionFrom(r)
	h.respondLoad(w, r, s, s.Canvas.SelectApp(r.Context(), req.AppID))
}

func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if s.Store.State().SelectedAppID == "" {
		writeError(w, r, http.StatusConflict, canvas.ErrNoApp)
		return
	}
	h.respondLoad(w, r, s, s.Canvas.Reload(r.Context()))
}

func (h *Handler) respondLoad(w http.ResponseWriter, r *http.Request, s *session.Session, result <-chan error) {
	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, r, http.StatusAccepted, newStateResponse(s))
		return
	}

	select {
	case err := <-result:
		switch {
		case err == nil:
			writeJSON(w, r, http.StatusOK, newStateResponse(s))
		case errors.Is(err, canvas.ErrStaleResponse), errors.Is(err, canvas.ErrNoApp):
			writeError(w, r, http.StatusConflict, err)
		case errors.Is(err, canvas.ErrClosed):
			writeError(w, r, http.StatusGone, err)
		default:
			writeError(w, r, http.StatusBadGateway, err)
		}
	case <-r.Context().Done():
	}
}
