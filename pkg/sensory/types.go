package sensory

import (
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/pkg/geom"
	"github.com/botforge/go-botforge/pkg/world"
)

// TriState is a boolean that can also be unknown.
type TriState int

const (
	Unknown TriState = iota
	False
	True
)

// Tri converts a known boolean.
func Tri(b bool) TriState {
	if b {
		return True
	}
	return False
}

// Known reports whether the value is True or False.
func (t TriState) Known() bool { return t != Unknown }

func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalText encodes true/false/unknown.
func (t TriState) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// HealthStatus is a coarse health bucket. Raw HP is never exposed.
type HealthStatus int

const (
	HealthUnknown HealthStatus = iota
	Healthy                    // > 75% HP
	Injured                    // 25% - 75% HP
	BadlyWounded               // <= 25% HP
)

func (h HealthStatus) String() string {
	switch h {
	case Healthy:
		return "Healthy"
	case Injured:
		return "Injured"
	case BadlyWounded:
		return "BadlyWounded"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the bucket name.
func (h HealthStatus) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// HealthFromHP buckets hp out of world.MaxHealth. A nil hp is unknown.
func HealthFromHP(hp *float64) HealthStatus {
	if hp == nil {
		return HealthUnknown
	}
	r := *hp / world.MaxHealth
	switch {
	case r > 0.75:
		return Healthy
	case r > 0.25:
		return Injured
	default:
		return BadlyWounded
	}
}

// Visibility classifies how well a player can be observed this tick.
type Visibility int

const (
	// OutOfFOV: beyond view distance or outside the view cone.
	OutOfFOV Visibility = iota
	// ObstructedInFOV: inside the cone and range, but terrain blocks the ray.
	ObstructedInFOV
	// DirectSight: inside the cone and range with a clear ray.
	DirectSight
)

func (v Visibility) String() string {
	switch v {
	case DirectSight:
		return "DirectSight"
	case ObstructedInFOV:
		return "ObstructedInFov"
	default:
		return "OutOfFov"
	}
}

// MarshalText encodes the state name.
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Armor holds the four armor slots.
type Armor struct {
	Head  *world.Item `json:"head"`
	Torso *world.Item `json:"torso"`
	Legs  *world.Item `json:"legs"`
	Feet  *world.Item `json:"feet"`
}

func (a Armor) clone() Armor {
	return Armor{
		Head:  a.Head.Clone(),
		Torso: a.Torso.Clone(),
		Legs:  a.Legs.Clone(),
		Feet:  a.Feet.Clone(),
	}
}

// TrackedPlayer is the bot's belief about another player.
//
// When InLineOfSight is false the loadout, status bits and health are
// unknown. Position and Velocity are either real-time (standing player
// behind cover, whose nametag shows through walls) or the last known values;
// they are nil when the player has never been located.
type TrackedPlayer struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Position      *geom.Vec    `json:"position"`
	Velocity      *geom.Vec    `json:"velocity"`
	HeldItem      *world.Item  `json:"held_item"`
	Armor         Armor        `json:"armor"`
	Crouching     TriState     `json:"crouching"`
	Sprinting     TriState     `json:"sprinting"`
	OnFire        TriState     `json:"on_fire"`
	Health        HealthStatus `json:"health"`
	Visibility    Visibility   `json:"visibility"`
	InLineOfSight bool         `json:"in_line_of_sight"`
	LastSeenAt    time.Time    `json:"last_seen_at"` // zero = never seen directly
}

// Clone returns a deep copy.
func (p TrackedPlayer) Clone() TrackedPlayer {
	c := p
	c.Position = cloneVec(p.Position)
	c.Velocity = cloneVec(p.Velocity)
	c.HeldItem = p.HeldItem.Clone()
	c.Armor = p.Armor.clone()
	return c
}

func cloneVec(v *geom.Vec) *geom.Vec {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func vecPtr(v geom.Vec) *geom.Vec {
	return &v
}
