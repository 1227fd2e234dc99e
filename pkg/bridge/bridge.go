// Package bridge connects a bot to its game-client sidecar over a websocket.
// The sidecar streams ticks, sounds and terrain changes; the bridge answers
// with control and attack commands.
//
// The bridge can dial out to the sidecar (Run) or accept the sidecar on a
// fiber route (RegisterRoutes). Only one sidecar is attached at a time.
package bridge

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/internal/log"
	"github.com/botforge/go-botforge/pkg/protocol"
	"github.com/botforge/go-botforge/pkg/sound"
	"github.com/botforge/go-botforge/pkg/world"
)

// textMessage is the websocket text frame opcode, shared by gorilla and
// fasthttp connections.
const textMessage = 1

// Sink consumes what the sidecar observes. botforge.Bot implements it.
type Sink interface {
	Tick(snap world.Snapshot)
	HearSound(raw sound.RawSound) sound.Event
}

// wsConn is the subset of a websocket connection the bridge writes to.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// peer is the attached sidecar connection.
type peer struct {
	id        uuid.UUID
	conn      wsConn
	connected time.Time

	mu sync.Mutex
}

// send writes one message to the sidecar.
func (p *peer) send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(textMessage, data)
}

// Bridge relays between a Sink and the sidecar. It implements botforge.Host.
type Bridge struct {
	cfg  Config
	grid *world.Grid
	log  *slog.Logger

	mu     sync.RWMutex
	sink   Sink
	peer   *peer
	closed bool

	// Stats
	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	ticks            atomic.Uint64
	rejected         atomic.Uint64
	connections      atomic.Uint64
}

// New creates a bridge. Attach a sink before traffic arrives.
func New(cfg Config) *Bridge {
	return &Bridge{
		cfg:  cfg.withDefaults(),
		grid: world.NewGrid(),
		log:  log.Component("bridge"),
	}
}

// Attach sets the consumer of ticks and sounds.
func (b *Bridge) Attach(sink Sink) {
	b.mu.Lock()
	b.sink = sink
	b.mu.Unlock()
}

// World returns the terrain assembled from block updates.
func (b *Bridge) World() *world.Grid {
	return b.grid
}

// Connected reports whether a sidecar is attached.
func (b *Bridge) Connected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.peer != nil
}

// SetControlState sends a control press or release to the sidecar.
func (b *Bridge) SetControlState(control string, state bool) {
	msg, err := protocol.NewControlMessage(control, state)
	if err != nil {
		b.log.Error("encode control", "error", err)
		return
	}
	if err := b.send(msg); err != nil {
		b.log.Warn("control not delivered", "control", control, "state", state, "error", err)
	}
}

// Attack sends a swing at target to the sidecar.
func (b *Bridge) Attack(target uuid.UUID) error {
	msg, err := protocol.NewAttackMessage(target)
	if err != nil {
		return err
	}
	return b.send(msg)
}

// Look turns the bot's head on the sidecar.
func (b *Bridge) Look(yaw, pitch float64) error {
	msg, err := protocol.NewLookMessage(yaw, pitch)
	if err != nil {
		return err
	}
	return b.send(msg)
}

// Chat sends a chat line through the sidecar.
func (b *Bridge) Chat(message string) error {
	msg, err := protocol.NewChatMessage(message)
	if err != nil {
		return err
	}
	return b.send(msg)
}

func (b *Bridge) send(msg *protocol.Message) error {
	b.mu.RLock()
	p, closed := b.peer, b.closed
	b.mu.RUnlock()

	if closed {
		return ErrClosed
	}
	if p == nil {
		return ErrNotConnected
	}

	b.messagesSent.Add(1)
	return p.send(msg)
}

// attach makes conn the active sidecar, closing any previous one.
func (b *Bridge) attach(conn wsConn) (*peer, error) {
	p := &peer{id: uuid.New(), conn: conn, connected: time.Now()}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	prev := b.peer
	b.peer = p
	b.mu.Unlock()

	if prev != nil {
		b.log.Warn("replacing sidecar connection", "previous", prev.id)
		prev.conn.Close()
	}

	b.connections.Add(1)
	b.log.Info("sidecar connected", "session", p.id)
	return p, nil
}

// detach clears p if it is still the active sidecar.
func (b *Bridge) detach(p *peer) {
	b.mu.Lock()
	if b.peer == p {
		b.peer = nil
	}
	b.mu.Unlock()

	b.log.Info("sidecar disconnected", "session", p.id, "uptime", time.Since(p.connected).Round(time.Second))
}

// handleMessage processes one inbound frame from p.
func (b *Bridge) handleMessage(p *peer, data []byte) {
	b.messagesReceived.Add(1)

	msg, err := protocol.ParseMessage(data)
	if err != nil {
		b.reject(p, "", err)
		return
	}

	b.mu.RLock()
	sink := b.sink
	b.mu.RUnlock()

	switch msg.Type {
	case protocol.TypeTick:
		tick, err := msg.GetTickData()
		if err != nil {
			b.reject(p, msg.Type, err)
			return
		}
		b.ticks.Add(1)
		if sink != nil {
			sink.Tick(tick.Snapshot(b.grid))
		}

	case protocol.TypeSound:
		raw, err := msg.GetSoundData()
		if err != nil {
			b.reject(p, msg.Type, err)
			return
		}
		if sink != nil {
			sink.HearSound(*raw)
		}

	case protocol.TypeBlocks:
		blocks, err := msg.GetBlocksData()
		if err != nil {
			b.reject(p, msg.Type, err)
			return
		}
		if blocks.Reset {
			b.grid.Reset()
		}
		b.grid.Apply(blocks.Updates)

	case protocol.TypePing:
		ping, err := msg.GetPingData()
		if err != nil {
			b.reject(p, msg.Type, err)
			return
		}
		pong, err := protocol.NewPongMessage(ping.ID, msg.Timestamp, time.Now().UnixMilli())
		if err != nil {
			b.log.Error("encode pong", "error", err)
			return
		}
		b.messagesSent.Add(1)
		if err := p.send(pong); err != nil {
			b.log.Debug("pong not delivered", "session", p.id, "error", err)
		}

	default:
		b.log.Debug("ignoring message", "type", msg.Type)
	}
}

// reject logs a bad frame and tells the sidecar why it was dropped.
func (b *Bridge) reject(p *peer, t protocol.MessageType, err error) {
	b.rejected.Add(1)
	b.log.Warn("rejected message", "type", t, "error", err)

	msg, e := protocol.NewErrorMessage(t, err.Error())
	if e != nil {
		b.log.Error("encode error reply", "error", e)
		return
	}
	if e := p.send(msg); e != nil {
		b.log.Debug("error reply not delivered", "session", p.id, "error", e)
	}
}

// Close detaches the sidecar and refuses further traffic.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	p := b.peer
	b.peer = nil
	b.mu.Unlock()

	if p != nil {
		return p.conn.Close()
	}
	return nil
}

// Stats contains bridge statistics
type Stats struct {
	Connected        bool      `json:"connected"`
	Session          string    `json:"session,omitempty"`
	ConnectedAt      time.Time `json:"connected_at,omitempty"`
	Connections      uint64    `json:"connections"`
	MessagesReceived uint64    `json:"messages_received"`
	MessagesSent     uint64    `json:"messages_sent"`
	Ticks            uint64    `json:"ticks"`
	Rejected         uint64    `json:"rejected"`
	KnownBlocks      int       `json:"known_blocks"`
}

// GetStats returns bridge statistics
func (b *Bridge) GetStats() Stats {
	b.mu.RLock()
	p := b.peer
	b.mu.RUnlock()

	s := Stats{
		Connections:      b.connections.Load(),
		MessagesReceived: b.messagesReceived.Load(),
		MessagesSent:     b.messagesSent.Load(),
		Ticks:            b.ticks.Load(),
		Rejected:         b.rejected.Load(),
		KnownBlocks:      b.grid.Len(),
	}
	if p != nil {
		s.Connected = true
		s.Session = p.id.String()
		s.ConnectedAt = p.connected
	}
	return s
}
