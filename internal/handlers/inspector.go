package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/terrascope/canvas/internal/inspector"
	"github.com/terrascope/canvas/internal/session"
)

const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 800
)

// InspectorResponse carries the panel for the selected node. View is null
// when nothing is selected.
type InspectorResponse struct {
	Selected bool            `json:"selected"`
	View     *inspector.View `json:"view"`
}

// InspectorPatch holds the inspector edits. Absent fields are left alone.
// ResourceInput is the raw text of the numeric input and wins over
// ResourceValue when both are sent.
type InspectorPatch struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=256"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=4096"`
	ResourceValue *float64 `json:"resourceValue,omitempty"`
	ResourceInput *string  `json:"resourceInput,omitempty" validate:"omitempty,max=64"`
	Tab           *string  `json:"tab,omitempty"`
}

type UIRequest struct {
	MobilePanelOpen *bool `json:"mobilePanelOpen" validate:"required"`
}

func newInspectorResponse(s *session.Session) InspectorResponse {
	v, ok := s.Inspector.View()
	return InspectorResponse{Selected: ok, View: v}
}

func (h *Handler) GetInspector(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, newInspectorResponse(sessionFrom(r)))
}

func (h *Handler) PatchInspector(w http.ResponseWriter, r *http.Request) {
	var req InspectorPatch
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	ins := sessionFrom(r).Inspector

	if req.Tab != nil {
		if err := ins.SetTab(*req.Tab); err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
	}
	if req.Name != nil {
		ins.SetName(*req.Name)
	}
	if req.Description != nil {
		ins.SetDescription(*req.Description)
	}
	switch {
	case req.ResourceInput != nil:
		ins.SetResourceInput(*req.ResourceInput)
	case req.ResourceValue != nil:
		ins.SetResourceValue(*req.ResourceValue)
	}

	writeJSON(w, r, http.StatusOK, newInspectorResponse(sessionFrom(r)))
}

func (h *Handler) UpdateUI(w http.ResponseWriter, r *http.Request) {
	var req UIRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	s := sessionFrom(r)
	s.Store.SetMobilePanelOpen(*req.MobilePanelOpen)
	writeJSON(w, r, http.StatusOK, newStateResponse(s))
}

func (h *Handler) Viewport(w http.ResponseWriter, r *http.Request) {
	width, err := dimension(r, "width", defaultViewportWidth)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	height, err := dimension(r, "height", defaultViewportHeight)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, r, http.StatusOK, sessionFrom(r).Canvas.FitView(width, height))
}

func dimension(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errors.Errorf("%s must be a positive number", name)
	}
	return v, nil
}
