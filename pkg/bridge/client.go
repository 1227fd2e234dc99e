package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// Run dials the sidecar at Config.URL and serves it, reconnecting after
// ReconnectDelay whenever the connection drops. It returns when ctx is done
// or the bridge is closed.
func (b *Bridge) Run(ctx context.Context) error {
	if b.cfg.URL == "" {
		return ErrNoURL
	}

	for {
		err := b.dialAndServe(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrClosed) {
			return err
		}
		b.log.Warn("sidecar connection lost", "url", b.cfg.URL, "error", err, "retry_in", b.cfg.ReconnectDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(b.cfg.ReconnectDelay):
		}
	}
}

// dialAndServe runs one connection to completion.
func (b *Bridge) dialAndServe(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: b.cfg.HandshakeTimeout,
	}

	ws, _, err := dialer.DialContext(ctx, b.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", b.cfg.URL, err)
	}

	p, err := b.attach(ws)
	if err != nil {
		ws.Close()
		return err
	}
	defer b.detach(p)

	// Unblock ReadMessage on shutdown.
	stop := context.AfterFunc(ctx, func() { ws.Close() })
	defer stop()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		b.handleMessage(p, data)
	}
}
