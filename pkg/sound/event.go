package sound

import (
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/pkg/geom"
)

// Sound categories, indexed as the game client reports them.
var categories = [...]string{
	"master",
	"music",
	"record",
	"weather",
	"block",
	"neutral",
	"player",
	"hostile",
	"ambient",
	"voice",
}

// CategoryName maps a category index to its name, or "unknown".
func CategoryName(index int) string {
	if index < 0 || index >= len(categories) {
		return "unknown"
	}
	return categories[index]
}

// RawSound is a sound notification with its true origin.
type RawSound struct {
	ID            int      `json:"id"`
	CategoryIndex int      `json:"category"`
	Name          string   `json:"name,omitempty"`
	Origin        geom.Vec `json:"origin"`
}

// Event is a heard sound. Position is fuzzed and never the true origin.
type Event struct {
	ID            uuid.UUID `json:"id"`
	SoundID       int       `json:"sound_id"`
	CategoryIndex int       `json:"category_index"`
	Category      string    `json:"category"`
	Name          string    `json:"name,omitempty"`
	Position      geom.Vec  `json:"position"`
	Timestamp     time.Time `json:"timestamp"`
}

// Age returns how old the event is at now.
func (e Event) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}
