// Package world defines what the game client hands the perception core each
// simulation tick: the bot's own pose, the roster of other players and a
// World that answers raycast and block lookups.
package world

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/pkg/geom"
)

// Default entity dimensions for a standing player.
const (
	PlayerHeight = 1.8
	PlayerWidth  = 0.6
	MaxHealth    = 20.0
)

// Status bits carried in entity metadata index 0.
const (
	FlagOnFire    uint8 = 0x01
	FlagCrouching uint8 = 0x02
	FlagSprinting uint8 = 0x08
)

// Status effect ids that matter for critical hits.
const (
	EffectBlindness   = 15
	EffectSlowFalling = 28
)

// Item is an item stack as reported by the game client.
type Item struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Count       int    `json:"count,omitempty"`
}

// Clone returns a copy of it, nil-safe.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	c := *it
	return &c
}

// ItemName returns the item's name or "" for an empty hand.
func ItemName(it *Item) string {
	if it == nil {
		return ""
	}
	return it.Name
}

// Pose is the bot's own observable state.
type Pose struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Position  geom.Vec  `json:"position"`
	Velocity  geom.Vec  `json:"velocity"`
	Yaw       float64   `json:"yaw"`   // radians, 0 = north
	Pitch     float64   `json:"pitch"` // radians, positive = down
	Height    float64   `json:"height"`
	OnGround  bool      `json:"on_ground"`
	InVehicle bool      `json:"in_vehicle"`
	Effects   []int     `json:"effects,omitempty"`
	HeldItem  *Item     `json:"held_item,omitempty"`
	UsingItem bool      `json:"using_item"`
}

// EyePosition returns the bot's eye position.
func (p Pose) EyePosition() geom.Vec {
	h := p.Height
	if h == 0 {
		h = PlayerHeight
	}
	return geom.Offset(p.Position, 0, h, 0)
}

// View returns the unit look direction.
func (p Pose) View() geom.Vec {
	return geom.ViewVector(p.Yaw, p.Pitch)
}

// HasEffect reports whether status effect id is active.
func (p Pose) HasEffect(id int) bool {
	return slices.Contains(p.Effects, id)
}

// Player is another player present in the world roster.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Position geom.Vec  `json:"position"`
	Velocity geom.Vec  `json:"velocity"`
	Width    float64   `json:"width,omitempty"`
	Height   float64   `json:"height,omitempty"`
	HeldItem *Item     `json:"held_item,omitempty"`
	Head     *Item     `json:"head,omitempty"`
	Torso    *Item     `json:"torso,omitempty"`
	Legs     *Item     `json:"legs,omitempty"`
	Feet     *Item     `json:"feet,omitempty"`
	Status   uint8     `json:"status"`           // metadata bitmask
	Health   *float64  `json:"health,omitempty"` // nil when the server hides it
}

func (p Player) height() float64 {
	if p.Height == 0 {
		return PlayerHeight
	}
	return p.Height
}

func (p Player) width() float64 {
	if p.Width == 0 {
		return PlayerWidth
	}
	return p.Width
}

// Center returns the middle of the player's hitbox.
func (p Player) Center() geom.Vec {
	return geom.Offset(p.Position, 0, p.height()/2, 0)
}

// Box returns the player's hitbox.
func (p Player) Box() geom.Box {
	return geom.EntityBox(p.Position, p.width(), p.height())
}

// Crouching reports the crouch bit.
func (p Player) Crouching() bool { return p.Status&FlagCrouching != 0 }

// Sprinting reports the sprint bit.
func (p Player) Sprinting() bool { return p.Status&FlagSprinting != 0 }

// OnFire reports the fire bit.
func (p Player) OnFire() bool { return p.Status&FlagOnFire != 0 }

// Block is a single block in the world.
type Block struct {
	Name     string   `json:"name"`
	Position geom.Vec `json:"position"`
	Solid    bool     `json:"solid"` // stops sight lines and the crosshair
}

// World answers geometric questions about the terrain around the bot.
type World interface {
	// Raycast returns the first obstructing block along the ray origin +
	// t*dir, t in [0, maxDist]. dir must be a unit vector.
	Raycast(origin, dir geom.Vec, maxDist float64) (Block, bool)

	// BlockAt returns the block occupying pos.
	BlockAt(pos geom.Vec) (Block, bool)
}

// Snapshot is everything observable at one simulation tick.
type Snapshot struct {
	Time    time.Time `json:"-"`
	Self    Pose      `json:"self"`
	Players []Player  `json:"players"`
	World   World     `json:"-"`
}

// Player returns the roster entry for id.
func (s Snapshot) Player(id uuid.UUID) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Empty is a World without any obstruction.
type Empty struct{}

// Raycast never hits.
func (Empty) Raycast(geom.Vec, geom.Vec, float64) (Block, bool) { return Block{}, false }

// BlockAt always reports air.
func (Empty) BlockAt(pos geom.Vec) (Block, bool) {
	return Block{Name: "air", Position: pos}, true
}
