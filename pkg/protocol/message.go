// Package protocol defines the WebSocket messages exchanged between botforge
// and the game-client sidecar, and the state frames pushed to dashboards.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/pkg/sound"
	"github.com/botforge/go-botforge/pkg/world"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Client → bot messages
	TypeTick   MessageType = "tick"   // One simulation step
	TypeSound  MessageType = "sound"  // Sound heard
	TypeBlocks MessageType = "blocks" // Terrain changes

	// Bot → client messages
	TypeControl MessageType = "control" // Press or release a control
	TypeAttack  MessageType = "attack"  // Swing at a player
	TypeLook    MessageType = "look"    // Turn the head
	TypeChat    MessageType = "chat"    // Say something in chat

	// Bot → dashboard
	TypeState MessageType = "state" // Periodic bot summary

	// Bidirectional
	TypePing  MessageType = "ping"  // Health check
	TypePong  MessageType = "pong"  // Health check response
	TypeError MessageType = "error" // Rejected message
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data any) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v any) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: missing type")
	}
	return &msg, nil
}

// =============================================================================
// Client → Bot Message Types
// =============================================================================

// TickData is one simulation step: the bot's pose and the player roster.
type TickData struct {
	Self    world.Pose     `json:"self"`
	Players []world.Player `json:"players"`
}

// Snapshot converts the tick to a snapshot over w. The time is left zero so
// the receiver stamps it with its own clock.
func (d *TickData) Snapshot(w world.World) world.Snapshot {
	return world.Snapshot{
		Self:    d.Self,
		Players: d.Players,
		World:   w,
	}
}

// SoundData is a sound notification with its true origin.
type SoundData = sound.RawSound

// BlocksData carries terrain changes. Reset clears known terrain before the
// updates are applied.
type BlocksData struct {
	Reset   bool                `json:"reset,omitempty"`
	Updates []world.BlockUpdate `json:"updates"`
}

// =============================================================================
// Bot → Client Message Types
// =============================================================================

// ControlData presses or releases one movement control.
type ControlData struct {
	Control string `json:"control"` // forward, back, left, right, jump, sneak, sprint
	State   bool   `json:"state"`
}

// AttackData requests a melee swing at a player.
type AttackData struct {
	Target uuid.UUID `json:"target"`
}

// LookData sets the bot's view direction, in radians.
type LookData struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// ChatData is one chat line.
type ChatData struct {
	Message string `json:"message"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}

// ErrorData explains why a message was rejected.
type ErrorData struct {
	Type    MessageType `json:"type,omitempty"`
	Message string      `json:"message"`
}
