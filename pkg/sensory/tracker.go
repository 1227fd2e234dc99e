// Package sensory simulates what a bot can actually know about other
// players: a view cone limited by distance and terrain, and a believed state
// per player that degrades to last-known values when sight is lost.
package sensory

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/internal/log"
	"github.com/botforge/go-botforge/pkg/geom"
	"github.com/botforge/go-botforge/pkg/world"
)

// Tracker maintains one TrackedPlayer per player in the world roster.
// Update is called once per tick; all other methods are reads that return
// copies and may be called from any goroutine.
type Tracker struct {
	cfg    Config
	fovRad float64
	log    *slog.Logger

	mu      sync.RWMutex
	players map[uuid.UUID]*TrackedPlayer
	order   []uuid.UUID // insertion order, for stable iteration
	self    geom.Vec
}

// New creates a tracker. Zero config fields take their defaults.
func New(cfg Config) *Tracker {
	cfg = cfg.withDefaults()
	return &Tracker{
		cfg:     cfg,
		fovRad:  geom.Radians(cfg.FOVDegrees),
		log:     log.Component("sensory"),
		players: make(map[uuid.UUID]*TrackedPlayer),
	}
}

// Config returns the effective configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Update re-evaluates every player in the snapshot and drops records for
// players that are no longer in the roster.
func (t *Tracker) Update(snap world.Snapshot) {
	now := snap.Time
	if now.IsZero() {
		now = time.Now()
	}
	w := snap.World
	if w == nil {
		w = world.Empty{}
	}

	present := make(map[uuid.UUID]bool, len(snap.Players))

	t.mu.Lock()
	defer t.mu.Unlock()

	t.self = snap.Self.Position

	for _, p := range snap.Players {
		if ignored(snap.Self, p) {
			continue
		}
		present[p.ID] = true

		vis := t.Classify(snap.Self, p, w)
		prev, known := t.players[p.ID]
		next := materialize(p, vis, prev, now)

		if !known {
			t.order = append(t.order, p.ID)
			t.log.Debug("tracking player", "player", p.Name, "visibility", vis)
		} else if prev.Visibility != vis {
			t.log.Debug("visibility changed", "player", p.Name, "from", prev.Visibility, "to", vis)
		}
		t.players[p.ID] = &next
	}

	kept := t.order[:0]
	for _, id := range t.order {
		if present[id] {
			kept = append(kept, id)
			continue
		}
		t.log.Debug("player left", "player", t.players[id].Name)
		delete(t.players, id)
	}
	t.order = kept
}

func ignored(self world.Pose, p world.Player) bool {
	if p.ID == uuid.Nil {
		return true // no entity yet, nothing to observe
	}
	if p.ID == self.ID {
		return true
	}
	return self.Name != "" && p.Name == self.Name
}

// Classify runs the range, angle and occlusion gates for one player.
func (t *Tracker) Classify(self world.Pose, p world.Player, w world.World) Visibility {
	eye := self.EyePosition()
	toPlayer := geom.Sub(p.Center(), eye)
	dist := geom.Norm(toPlayer)

	if dist > t.cfg.ViewDistance {
		return OutOfFOV
	}

	if t.cfg.FOVDegrees < 360 {
		if geom.AngleBetween(self.View(), toPlayer) > t.fovRad/2 {
			return OutOfFOV
		}
	}

	if w != nil {
		if _, hit := w.Raycast(eye, geom.Normalize(toPlayer), dist); hit {
			return ObstructedInFOV
		}
	}
	return DirectSight
}

// materialize builds this tick's record from the raw roster entry.
func materialize(p world.Player, vis Visibility, prev *TrackedPlayer, now time.Time) TrackedPlayer {
	rec := TrackedPlayer{
		ID:         p.ID,
		Name:       p.Name,
		Visibility: vis,
	}

	var lastSeen time.Time
	if prev != nil {
		lastSeen = prev.LastSeenAt
	}

	switch {
	case vis == DirectSight:
		rec.Position = vecPtr(p.Position)
		rec.Velocity = vecPtr(p.Velocity)
		rec.HeldItem = p.HeldItem.Clone()
		rec.Armor = Armor{
			Head:  p.Head.Clone(),
			Torso: p.Torso.Clone(),
			Legs:  p.Legs.Clone(),
			Feet:  p.Feet.Clone(),
		}
		rec.Crouching = Tri(p.Crouching())
		rec.Sprinting = Tri(p.Sprinting())
		rec.OnFire = Tri(p.OnFire())
		rec.Health = HealthFromHP(p.Health)
		rec.InLineOfSight = true
		rec.LastSeenAt = now

	case vis == ObstructedInFOV && !p.Crouching():
		// A standing player's nametag renders through walls.
		rec.Position = vecPtr(p.Position)
		rec.Velocity = vecPtr(p.Velocity)
		rec.LastSeenAt = lastSeen

	default:
		if prev != nil && prev.Position != nil {
			rec.Position = cloneVec(prev.Position)
			rec.Velocity = vecPtr(geom.Vec{})
		}
		rec.LastSeenAt = lastSeen
	}
	return rec
}

// TrackedPlayers returns a copy of every record in first-seen order.
func (t *Tracker) TrackedPlayers() []TrackedPlayer {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]TrackedPlayer, 0, len(t.order))
	for _, id := range t.order {
		result = append(result, t.players[id].Clone())
	}
	return result
}

// Player returns the record for id.
func (t *Tracker) Player(id uuid.UUID) (TrackedPlayer, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.players[id]
	if !ok {
		return TrackedPlayer{}, false
	}
	return p.Clone(), true
}

// Len returns the number of tracked players.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// FindNearestEnemy returns the record with a known position closest to the
// bot's feet. Ties go to the player tracked first.
func (t *Tracker) FindNearestEnemy() (TrackedPlayer, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var nearest *TrackedPlayer
	minDist := math.Inf(1)

	for _, id := range t.order {
		p := t.players[id]
		if p.Position == nil {
			continue
		}
		if d := geom.Distance(t.self, *p.Position); d < minDist {
			minDist = d
			nearest = p
		}
	}

	if nearest == nil {
		return TrackedPlayer{}, false
	}
	return nearest.Clone(), true
}
