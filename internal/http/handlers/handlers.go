// Package handlers exposes the board over HTTP: the merged snapshot, the
// pipeline diagnostics and the health probes.
package handlers

import (
	"log/slog"
	"net/http"

	"ringboard-service/internal/domain"
	"ringboard-service/internal/engine"
	"ringboard-service/internal/logging"
	"ringboard-service/internal/store"
)

// BoardSource is the slice of the sync engine the HTTP layer reads from.
type BoardSource interface {
	Snapshot() store.Snapshot
	Diagnostics() engine.Diagnostics
	Refetch()
}

// Handler wires HTTP routes to the board source.
type Handler struct {
	board  BoardSource
	logger *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(board BoardSource, logger *slog.Logger) *Handler {
	return &Handler{board: board, logger: logger}
}

// BoardSnapshot returns the current merged snapshot.
func (h *Handler) BoardSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := h.board.Snapshot()
	logger := loggerFromContext(r, h.logger)
	logging.Info(logger, "served board snapshot",
		logging.FieldCount, len(snap.ClassGroups),
		"entries", len(snap.Entries),
		"status", string(snap.ConnectionStatus),
	)
	writeJSON(w, http.StatusOK, snap, h.logger)
}

// Diagnostics returns connection state and pipeline counters.
func (h *Handler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.board.Diagnostics(), h.logger)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic. The scope is ready once it has
// connected and produced a snapshot.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	snap := h.board.Snapshot()
	if snap.ConnectionStatus == domain.StatusConnected {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := snap.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// Refetch forces an immediate snapshot refresh, bypassing the debounce
// window. Intended for operators poking at a display that looks behind.
func (h *Handler) Refetch(w http.ResponseWriter, r *http.Request) {
	h.board.Refetch()
	logging.Info(loggerFromContext(r, h.logger), "manual refetch requested")
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refetch scheduled"}, h.logger)
}

// NotFound is the router's catch-all.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found", h.logger)
}
