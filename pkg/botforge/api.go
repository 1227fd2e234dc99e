// Package botforge is the surface a decision layer programs against. It
// composes the sensory, sound, combat and movement trackers behind one API
// and is driven by the host once per simulation tick.
package botforge

import (
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/pkg/combat"
	"github.com/botforge/go-botforge/pkg/geom"
	"github.com/botforge/go-botforge/pkg/movement"
	"github.com/botforge/go-botforge/pkg/sensory"
	"github.com/botforge/go-botforge/pkg/sound"
)

// API is everything a bot script may read or do. Nothing else of the game
// client is reachable through it.
type API interface {
	TrackedPlayers() []sensory.TrackedPlayer
	FindNearestEnemy() (sensory.TrackedPlayer, bool)
	RecentSounds() []sound.Event

	StrongAttackCharged() bool
	DamageMultiplier() float64
	InCritWindow() bool
	Attack(target uuid.UUID) bool

	MoveForward(d time.Duration)
	MoveBackward(d time.Duration)
	MoveLeft(d time.Duration)
	MoveRight(d time.Duration)
	Jump(d time.Duration)
	Sneak(d time.Duration)
	Sprint(d time.Duration)

	Look(yaw, pitch float64)
	LookAt(target geom.Vec)
	Chat(message string)
}

// Host is the game client side: it applies control states, dispatches
// attacks, turns the head and sends chat.
type Host interface {
	movement.Controls
	combat.Attacker
	Look(yaw, pitch float64) error
	Chat(message string) error
}

var _ API = (*Bot)(nil)
