package sound

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// Config holds hearing parameters.
type Config struct {
	MaxSoundAge   time.Duration // retention window
	FuzzyAngle    float64       // max angular error, degrees
	PruneInterval time.Duration // cadence of the prune loop
}

// DefaultConfig returns a 5s window, 10° fuzz and a 1s prune cadence.
func DefaultConfig() Config {
	return Config{
		MaxSoundAge:   5 * time.Second,
		FuzzyAngle:    10,
		PruneInterval: time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxSoundAge == 0 {
		c.MaxSoundAge = d.MaxSoundAge
	}
	if c.FuzzyAngle == 0 {
		c.FuzzyAngle = d.FuzzyAngle
	}
	if c.PruneInterval <= 0 {
		c.PruneInterval = d.PruneInterval
	}
	return c
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithSource fixes the random source used for fuzzing.
func WithSource(src rand.Source) Option {
	return func(t *Tracker) {
		t.src = src
	}
}

// WithSeed is WithSource with a PCG source seeded from seed.
func WithSeed(seed uint64) Option {
	return WithSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

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
