package protocol

import (
	"github.com/google/uuid"

	"github.com/botforge/go-botforge/pkg/world"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewTickMessage creates a tick message
func NewTickMessage(self world.Pose, players []world.Player) (*Message, error) {
	return NewMessage(TypeTick, TickData{
		Self:    self,
		Players: players,
	})
}

// NewSoundMessage creates a sound message
func NewSoundMessage(raw SoundData) (*Message, error) {
	return NewMessage(TypeSound, raw)
}

// NewBlocksMessage creates a terrain update message
func NewBlocksMessage(reset bool, updates []world.BlockUpdate) (*Message, error) {
	return NewMessage(TypeBlocks, BlocksData{
		Reset:   reset,
		Updates: updates,
	})
}

// NewControlMessage creates a control state message
func NewControlMessage(control string, state bool) (*Message, error) {
	return NewMessage(TypeControl, ControlData{
		Control: control,
		State:   state,
	})
}

// NewAttackMessage creates an attack message
func NewAttackMessage(target uuid.UUID) (*Message, error) {
	return NewMessage(TypeAttack, AttackData{Target: target})
}

// NewLookMessage creates a look message
func NewLookMessage(yaw, pitch float64) (*Message, error) {
	return NewMessage(TypeLook, LookData{Yaw: yaw, Pitch: pitch})
}

// NewChatMessage creates a chat message
func NewChatMessage(message string) (*Message, error) {
	return NewMessage(TypeChat, ChatData{Message: message})
}

// NewStateMessage wraps a bot summary for dashboards
func NewStateMessage(state any) (*Message, error) {
	return NewMessage(TypeState, state)
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID: id,
	})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// NewErrorMessage creates an error message
func NewErrorMessage(rejected MessageType, msg string) (*Message, error) {
	return NewMessage(TypeError, ErrorData{
		Type:    rejected,
		Message: msg,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetTickData extracts tick data from a message
func (m *Message) GetTickData() (*TickData, error) {
	var data TickData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetSoundData extracts sound data from a message
func (m *Message) GetSoundData() (*SoundData, error) {
	var data SoundData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetBlocksData extracts terrain updates from a message
func (m *Message) GetBlocksData() (*BlocksData, error) {
	var data BlocksData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetControlData extracts a control command from a message
func (m *Message) GetControlData() (*ControlData, error) {
	var data ControlData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetAttackData extracts an attack command from a message
func (m *Message) GetAttackData() (*AttackData, error) {
	var data AttackData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetLookData extracts LookData from a message
func (m *Message) GetLookData() (*LookData, error) {
	var data LookData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetChatData extracts ChatData from a message
func (m *Message) GetChatData() (*ChatData, error) {
	var data ChatData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
