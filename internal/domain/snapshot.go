package domain

// ConnectionStatus is the coarse freshness signal shown on the board. It is a
// "has this scope ever produced data" signal, not an instantaneous transport
// state, so a flapping change feed never flickers the indicator.
type ConnectionStatus string

const (
	StatusConnecting ConnectionStatus = "connecting"
	StatusConnected  ConnectionStatus = "connected"
	StatusError      ConnectionStatus = "error"
)
