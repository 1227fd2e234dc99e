// Package combat reproduces the attack cooldown and critical hit rules from
// observable state: how long since the last swing or item switch, what is
// held, and how the bot is moving.
package combat

import (
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/internal/log"
	"github.com/botforge/go-botforge/pkg/geom"
	"github.com/botforge/go-botforge/pkg/world"
)

// initialCharge backdates the first reset so a new bot starts charged.
const initialCharge = 5 * time.Second

// Attacker dispatches a melee attack on a player.
type Attacker interface {
	Attack(target uuid.UUID) error
}

// Blocks that cancel a critical hit while the bot is inside them.
var noCritBlocks = map[string]bool{
	"water":       true,
	"ladder":      true,
	"cobweb":      true,
	"scaffolding": true,
	"honey_block": true,
}

// Tracker holds the cooldown clock of one bot.
type Tracker struct {
	cfg      Config
	attacker Attacker
	now      func() time.Time
	log      *slog.Logger

	mu        sync.RWMutex
	lastReset time.Time
	heldName  string
	primed    bool // heldName holds the first observed item
	self      world.Pose
	players   []world.Player
	world     world.World
	inBlock   string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.log = logger
	}
}

// New creates a tracker that dispatches validated attacks through attacker.
// attacker may be nil, in which case Attack never succeeds.
func New(cfg Config, attacker Attacker, opts ...Option) *Tracker {
	t := &Tracker{
		cfg:      cfg.withDefaults(),
		attacker: attacker,
		now:      time.Now,
		world:    world.Empty{},
		inBlock:  "air",
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = log.Component("combat")
	}
	t.lastReset = t.now().Add(-initialCharge)
	return t
}

// Config returns the effective configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Update records this tick's pose, roster and terrain. A change of held item
// resets the cooldown; the first snapshot only records what is held.
func (t *Tracker) Update(snap world.Snapshot) {
	w := snap.World
	if w == nil {
		w = world.Empty{}
	}
	inBlock := "air"
	if b, ok := w.BlockAt(snap.Self.Position); ok {
		inBlock = b.Name
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	name := world.ItemName(snap.Self.HeldItem)
	switch {
	case !t.primed:
		t.heldName = name
		t.primed = true
	case name != t.heldName:
		t.log.Debug("held item changed", "from", t.heldName, "to", name)
		t.heldName = name
		t.resetLocked()
	}

	t.self = snap.Self
	t.players = snap.Players
	t.world = w
	t.inBlock = inBlock
}

// Look applies a view change ahead of the next snapshot, so an attack
// before then aims where the bot now looks.
func (t *Tracker) Look(yaw, pitch float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.self.Yaw = yaw
	t.self.Pitch = pitch
}

// Reset restarts the cooldown now.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

func (t *Tracker) resetLocked() {
	t.lastReset = t.now()
	t.log.Debug("attack cooldown reset")
}

// Elapsed returns the time since the last reset.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.now().Sub(t.lastReset)
}

// HeldItem returns the name of the held item, "" for an empty hand.
func (t *Tracker) HeldItem() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.heldName
}

// Cooldown returns the full charge time for the held item.
func (t *Tracker) Cooldown() time.Duration {
	return CooldownFor(t.HeldItem())
}

// StrongAttackCharged reports whether a full cooldown has elapsed.
func (t *Tracker) StrongAttackCharged() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.now().Sub(t.lastReset) >= CooldownFor(t.heldName)
}

// DamageMultiplier returns the damage scale in [0.2, 1] for an attack now.
func (t *Tracker) DamageMultiplier() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Multiplier(t.now().Sub(t.lastReset), AttackSpeed(t.heldName))
}

// ChargeRatio returns elapsed time over cooldown. It is not capped at 1.
func (t *Tracker) ChargeRatio() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.chargeLocked()
}

func (t *Tracker) chargeLocked() float64 {
	return float64(t.now().Sub(t.lastReset)) / float64(CooldownFor(t.heldName))
}

// InCritWindow reports whether an attack now would be a critical hit: the
// bot is falling, not grounded or riding, not blind or slow falling, not
// inside a climbable or liquid block, and charged past CritCharge.
func (t *Tracker) InCritWindow() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := t.self
	if s.Velocity.Y >= 0 || s.OnGround || s.InVehicle {
		return false
	}
	if s.HasEffect(world.EffectBlindness) || s.HasEffect(world.EffectSlowFalling) {
		return false
	}
	if noCritBlocks[t.inBlock] || strings.Contains(t.inBlock, "vine") {
		return false
	}
	return t.chargeLocked() >= t.cfg.CritCharge
}

// Attack swings at target if the swing is valid: target is in the roster,
// within reach, under the crosshair with no block in between, and the bot is
// not using an item. A valid swing is dispatched and resets the cooldown.
// An invalid one does nothing. Attack reports whether a swing was sent.
func (t *Tracker) Attack(target uuid.UUID) bool {
	t.mu.RLock()
	ok := t.validLocked(target)
	t.mu.RUnlock()

	if !ok || t.attacker == nil {
		return false
	}

	if err := t.attacker.Attack(target); err != nil {
		t.log.Warn("attack dispatch failed", "target", target, "error", err)
		return false
	}

	t.Reset()
	return true
}

// CanAttack reports whether Attack(target) would be dispatched.
func (t *Tracker) CanAttack(target uuid.UUID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.validLocked(target)
}

func (t *Tracker) validLocked(target uuid.UUID) bool {
	if t.self.UsingItem {
		return false
	}

	var victim *world.Player
	for i := range t.players {
		if t.players[i].ID == target {
			victim = &t.players[i]
			break
		}
	}
	if victim == nil {
		return false
	}

	eye := t.self.EyePosition()
	if geom.DistanceToBox(eye, victim.Box()) > t.cfg.MaxReach {
		return false
	}

	hitID, ok := t.underCursorLocked(eye)
	return ok && hitID == target
}

// underCursorLocked returns the player whose hitbox the look ray enters
// first within reach, unless a block is hit before it.
func (t *Tracker) underCursorLocked(eye geom.Vec) (uuid.UUID, bool) {
	dir := t.self.View()

	var (
		best  uuid.UUID
		bestT = math.Inf(1)
	)
	for _, p := range t.players {
		if p.ID == t.self.ID {
			continue
		}
		if d, hit := geom.RayBox(eye, dir, t.cfg.MaxReach, p.Box()); hit && d < bestT {
			best, bestT = p.ID, d
		}
	}
	if math.IsInf(bestT, 1) {
		return uuid.Nil, false
	}

	if _, blocked := t.world.Raycast(eye, dir, bestT); blocked {
		return uuid.Nil, false
	}
	return best, true
}
