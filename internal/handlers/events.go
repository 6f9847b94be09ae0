package handlers

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/terrascope/canvas/internal/canvas"
	"github.com/terrascope/canvas/internal/models"
)

const (
	EventNodeClick   = "node_click"
	EventPaneClick   = "pane_click"
	EventConnect     = "connect"
	EventNodesChange = "nodes_change"
	EventEdgesChange = "edges_change"
	EventKeyDown     = "key_down"
)

// EventRequest is one canvas gesture. Only the payload matching Kind is read.
type EventRequest struct {
	Kind        string              `json:"kind" validate:"required,oneof=node_click pane_click connect nodes_change edges_change key_down"`
	NodeID      string              `json:"nodeId,omitempty" validate:"required_if=Kind node_click"`
	Connection  *models.Connection  `json:"connection,omitempty" validate:"required_if=Kind connect"`
	NodeChanges []models.NodeChange `json:"nodeChanges,omitempty" validate:"required_if=Kind nodes_change,dive"`
	EdgeChanges []models.EdgeChange `json:"edgeChanges,omitempty" validate:"required_if=Kind edges_change,dive"`
	Key         *canvas.KeyEvent    `json:"key,omitempty" validate:"required_if=Kind key_down"`
}

type EventResponse struct {
	Handled bool          `json:"handled"`
	State   StateResponse `json:"state"`
}

func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	s := sessionFrom(r)
	handled := true

	switch req.Kind {
	case EventNodeClick:
		s.Canvas.OnNodeClick(req.NodeID)
	case EventPaneClick:
		s.Canvas.OnPaneClick()
	case EventConnect:
		if err := s.Canvas.OnConnect(*req.Connection); err != nil {
			if errors.Is(err, canvas.ErrSelfLoop) || errors.Is(err, canvas.ErrUnknownNode) {
				writeError(w, r, http.StatusUnprocessableEntity, err)
				return
			}
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}
	case EventNodesChange:
		s.Canvas.OnNodesChange(req.NodeChanges)
	case EventEdgesChange:
		s.Canvas.OnEdgesChange(req.EdgeChanges)
	case EventKeyDown:
		handled = s.Canvas.OnKeyDown(*req.Key)
	}

	writeJSON(w, r, http.StatusOK, EventResponse{Handled: handled, State: newStateResponse(s)})
}
