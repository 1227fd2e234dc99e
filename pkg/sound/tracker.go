// Package sound keeps a short memory of heard sounds. Each sound is placed
// at a randomised point near its true origin, at the true distance but up to
// a configured angle off, and forgotten after a retention window.
package sound

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/internal/log"
	"github.com/botforge/go-botforge/pkg/geom"
)

// Tracker retains fuzzed sound events. Hear and the prune loop may run on
// different goroutines.
type Tracker struct {
	cfg Config
	src rand.Source
	now func() time.Time
	log *slog.Logger

	mu     sync.RWMutex
	events []Event // oldest first
}

// New creates a tracker. Zero config fields take their defaults.
func New(cfg Config, opts ...Option) *Tracker {
	t := &Tracker{
		cfg: cfg.withDefaults(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = log.Component("sound")
	}
	return t
}

// Config returns the effective configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Hear records raw as heard from listener and returns the stored event.
func (t *Tracker) Hear(raw RawSound, listener geom.Vec) Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	ev := Event{
		ID:            uuid.New(),
		SoundID:       raw.ID,
		CategoryIndex: raw.CategoryIndex,
		Category:      CategoryName(raw.CategoryIndex),
		Name:          raw.Name,
		Position:      geom.FuzzyPoint(raw.Origin, listener, t.cfg.FuzzyAngle, t.src),
		Timestamp:     t.now(),
	}
	t.events = append(t.events, ev)

	t.log.Debug("sound heard", "category", ev.Category, "sound_id", ev.SoundID)
	return ev
}

// Prune drops events at least MaxSoundAge old at now. It returns the number
// removed.
func (t *Tracker) Prune(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := make([]Event, 0, len(t.events))
	for _, ev := range t.events {
		if ev.Age(now) < t.cfg.MaxSoundAge {
			kept = append(kept, ev)
		}
	}
	removed := len(t.events) - len(kept)
	t.events = kept
	return removed
}

// Run prunes every PruneInterval until ctx is done.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := t.Prune(t.now()); n > 0 {
				t.log.Debug("pruned sounds", "count", n)
			}
		}
	}
}

// RecentSounds returns a copy of the retained events, oldest first.
func (t *Tracker) RecentSounds() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Event, len(t.events))
	copy(result, t.events)
	return result
}

// RecentSoundsIn returns retained events of one category, oldest first.
func (t *Tracker) RecentSoundsIn(category string) []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var result []Event
	for _, ev := range t.events {
		if ev.Category == category {
			result = append(result, ev)
		}
	}
	return result
}

// Len returns the number of retained events.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.events)
}
