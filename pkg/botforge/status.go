package botforge

import (
	"time"

	"github.com/botforge/go-botforge/pkg/movement"
	"github.com/botforge/go-botforge/pkg/world"
)

// CombatStatus is the combat tracker's view at one instant.
type CombatStatus struct {
	HeldItem         string        `json:"held_item"`
	Charged          bool          `json:"charged"`
	DamageMultiplier float64       `json:"damage_multiplier"`
	ChargeRatio      float64       `json:"charge_ratio"`
	Cooldown         time.Duration `json:"cooldown_ns"`
	InCritWindow     bool          `json:"in_crit_window"`
}

// Status is a point-in-time summary of the bot.
type Status struct {
	Ticks          uint64       `json:"ticks"`
	LastTick       time.Time    `json:"last_tick"`
	Self           world.Pose   `json:"self"`
	TrackedPlayers int          `json:"tracked_players"`
	Sounds         int          `json:"sounds"`
	Combat         CombatStatus `json:"combat"`
	Controls       []string     `json:"controls"`
}

// Combat returns the combat summary.
func (b *Bot) Combat() CombatStatus {
	return CombatStatus{
		HeldItem:         b.combat.HeldItem(),
		Charged:          b.combat.StrongAttackCharged(),
		DamageMultiplier: b.combat.DamageMultiplier(),
		ChargeRatio:      b.combat.ChargeRatio(),
		Cooldown:         b.combat.Cooldown(),
		InCritWindow:     b.combat.InCritWindow(),
	}
}

// ActiveControls lists the controls currently held by movement timers.
func (b *Bot) ActiveControls() []string {
	active := []string{}
	for _, a := range movement.Axes() {
		if b.movement.Active(a) {
			active = append(active, a.String())
		}
	}
	return active
}

// Status returns a summary of the bot.
func (b *Bot) Status() Status {
	b.mu.RLock()
	self, last, ticks := b.self, b.lastTick, b.ticks
	b.mu.RUnlock()

	return Status{
		Ticks:          ticks,
		LastTick:       last,
		Self:           self,
		TrackedPlayers: b.sensory.Len(),
		Sounds:         b.sound.Len(),
		Combat:         b.Combat(),
		Controls:       b.ActiveControls(),
	}
}
