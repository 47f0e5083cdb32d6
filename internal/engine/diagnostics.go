package engine

import (
	"time"

	"ringboard-service/internal/domain"
	"ringboard-service/internal/metrics"
)

// Diagnostics is a point-in-time view of pipeline health, served on the
// diagnostics endpoint.
type Diagnostics struct {
	ScopeKey             string                  `json:"scopeKey"`
	Running              bool                    `json:"running"`
	ConnectionStatus     domain.ConnectionStatus `json:"connectionStatus"`
	LastSuccessfulUpdate time.Time               `json:"lastSuccessfulUpdate"`
	LastError            string                  `json:"lastError,omitempty"`
	Terminal             bool                    `json:"terminal"`
	GroupCount           int                     `json:"groupCount"`
	EntryCount           int                     `json:"entryCount"`
	Pipeline             metrics.Snapshot        `json:"pipeline"`
}

// Diagnostics reports the current connection state and pipeline counters.
func (e *Engine) Diagnostics() Diagnostics {
	snap := e.state.Snapshot()
	d := Diagnostics{
		ScopeKey:             e.cfg.ScopeKey,
		Running:              e.started.Load(),
		ConnectionStatus:     snap.ConnectionStatus,
		LastSuccessfulUpdate: snap.LastSuccessfulUpdate,
		Terminal:             e.terminal.Load(),
		GroupCount:           len(snap.ClassGroups),
		EntryCount:           len(snap.Entries),
		Pipeline:             e.metrics.Snapshot(),
	}
	if snap.LastError != "" {
		d.LastError = snap.LastError
	}
	return d
}
