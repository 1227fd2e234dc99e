package bridge

import "time"

// Default connection settings.
const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultReconnectDelay   = 2 * time.Second
)

// Config holds the sidecar connection settings.
type Config struct {
	// URL of the sidecar websocket. Empty means the bridge only accepts
	// inbound connections on its fiber endpoint.
	URL string

	HandshakeTimeout time.Duration
	ReconnectDelay   time.Duration
}

// DefaultConfig returns inbound-only settings with default timeouts.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: DefaultHandshakeTimeout,
		ReconnectDelay:   DefaultReconnectDelay,
	}
}

func (c Config) withDefaults() Config {
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = DefaultReconnectDelay
	}
	return c
}
