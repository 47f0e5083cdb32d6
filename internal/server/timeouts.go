package server

import "time"

// Timeout policy for the board's HTTP surface. Handlers serve in-memory
// snapshot JSON, so a slow write means a stalled client rather than a slow
// handler. The websocket path manages its own deadlines once the connection
// is upgraded.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 2 * time.Minute
)

// shutdownTimeout bounds gracefulShutdown; a var so tests can shorten it.
var shutdownTimeout = 15 * time.Second
