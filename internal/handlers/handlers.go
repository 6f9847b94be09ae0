// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/terrascope/canvas/internal/logger"
	"github.com/terrascope/canvas/internal/session"
)

const maxBodyBytes = 1 << 20

var errMethodNotAllowed = errors.New("method not allowed")

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	sessions *session.Manager
	validate *validator.Validate
	upgrader websocket.Upgrader
}

func New(sessions *session.Manager) *Handler {
	return &Handler{
		sessions: sessions,
		validate: validator.New(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// NewRouter wires every route under baseURL. Middlewares run before routing,
// so they also see preflight requests.
func NewRouter(h *Handler, baseURL string, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middlewares...)

	routes := func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Handle("/metrics", promhttp.Handler())

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/apps", h.ListApps)
			r.Post("/sessions", h.CreateSession)

			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Use(h.withSession)

				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)
				r.Get("/state", h.GetState)
				r.Put("/app", h.SelectApp)
				r.Post("/reload", h.Reload)
				r.Post("/events", h.HandleEvent)
				r.Get("/inspector", h.GetInspector)
				r.Patch("/inspector", h.PatchInspector)
				r.Put("/ui", h.UpdateUI)
				r.Get("/viewport", h.Viewport)
				r.Get("/ws", h.Stream)
			})
		})
	}

	if baseURL == "" {
		routes(r)
	} else {
		r.Route(baseURL, routes)
	}
	return r
}

type sessionKey struct{}

func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s, ok := h.sessions.Get(id)
		if !ok {
			writeError(w, r, http.StatusNotFound, errors.Errorf("session %q not found", id))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey{}).(*session.Session)
}

// decode reads a JSON body into v and validates it.
func (h *Handler) decode(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errors.Wrap(err, "invalid request body")
	}
	if err := h.validate.Struct(v); err != nil {
		return errors.Wrap(err, "invalid request")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		logger.Log(logger.LevelError, map[string]string{"path": r.URL.Path}, err, "error encoding response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Log(logger.LevelWarn, map[string]string{"path": r.URL.Path}, err, "request failed")
	}
	writeJSON(w, r, status, ErrorResponse{Error: err.Error()})
}
