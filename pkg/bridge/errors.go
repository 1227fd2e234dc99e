package bridge

import "errors"

// Sentinel errors for common error conditions.
var (
	// ErrNotConnected is returned when a command is sent with no sidecar attached.
	ErrNotConnected = errors.New("bridge: not connected")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("bridge: closed")

	// ErrNoURL is returned by Run when no sidecar URL is configured.
	ErrNoURL = errors.New("bridge: sidecar URL required")
)
