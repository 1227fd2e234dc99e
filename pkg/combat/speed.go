package combat

import (
	"strings"
	"time"
)

// Attack speeds in attacks per second.
const (
	handSpeed = 4.0
	tickRate  = 20.0 // game ticks per second
	tickMs    = 1000.0 / tickRate
)

// AttackSpeed returns the attack speed of the item called name.
// Matching is by substring, most specific first; an empty hand or unknown
// item attacks at hand speed.
func AttackSpeed(name string) float64 {
	has := func(s string) bool { return strings.Contains(name, s) }

	switch {
	case name == "":
		return handSpeed
	case has("sword"):
		return 1.6
	case has("trident"):
		return 1.1
	case has("shovel"):
		return 1.0
	case has("pickaxe"):
		return 1.2
	}

	if has("axe") {
		switch {
		case has("wooden"), has("stone"):
			return 0.8
		case has("iron"):
			return 0.9
		case has("diamond"), has("netherite"), has("golden"):
			return 1.0
		}
	}

	if has("hoe") {
		switch {
		case has("wooden"), has("golden"):
			return 1.0
		case has("stone"):
			return 2.0
		case has("iron"):
			return 3.0
		case has("diamond"), has("netherite"):
			return 4.0
		}
	}

	return handSpeed
}

// CooldownFor returns the time to a full charge with the item called name.
func CooldownFor(name string) time.Duration {
	return time.Duration(float64(time.Second) / AttackSpeed(name))
}

// Multiplier is the damage ramp for elapsed time since the last reset.
// With T ticks to full charge and x ticks elapsed it is
// clamp(0.2 + ((x+0.5)/T)^2 * 0.8, 0.2, 1).
func Multiplier(elapsed time.Duration, speed float64) float64 {
	T := tickRate / speed
	x := float64(elapsed) / float64(time.Millisecond) / tickMs
	r := (x + 0.5) / T
	return clamp(0.2+r*r*0.8, 0.2, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
