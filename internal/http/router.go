// Package http assembles the read-only API router.
package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"ringboard-service/internal/http/handlers"
	"ringboard-service/internal/http/middleware"
	"ringboard-service/internal/metrics"
)

// NewRouter builds the API router. wsHandler is optional; when nil the /ws
// route is not mounted.
func NewRouter(h *handlers.Handler, wsHandler nethttp.Handler, logger *slog.Logger, recorder *metrics.Recorder) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger, recorder))

	r.Get("/board/snapshot", h.BoardSnapshot)
	r.Get("/board/diagnostics", h.Diagnostics)
	r.Post("/board/refetch", h.Refetch)
	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	if wsHandler != nil {
		r.Handle("/ws", wsHandler)
	}

	r.NotFound(h.NotFound)
	return r
}
