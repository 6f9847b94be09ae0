package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/terrascope/canvas/internal/logger"
)

// RequestLogger logs one line per request. Server errors are logged as
// warnings, everything else at debug level.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		level := logger.LevelDebug
		if status >= http.StatusInternalServerError {
			level = logger.LevelWarn
		}
		logger.Log(level, map[string]string{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   strconv.Itoa(status),
			"duration": time.Since(start).String(),
		}, nil, "request")
	})
}
