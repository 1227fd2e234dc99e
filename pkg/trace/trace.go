// Package trace writes the bot's per-tick beliefs about other players to CSV
// for offline analysis.
package trace

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/botforge/go-botforge/internal/log"
	"github.com/botforge/go-botforge/pkg/botforge"
	"github.com/botforge/go-botforge/pkg/sensory"
)

// Row is one tracked player at one tick.
type Row struct {
	Tick          uint64  `csv:"tick"`
	TimeMs        int64   `csv:"time_ms"`
	PlayerID      string  `csv:"player_id"`
	Name          string  `csv:"name"`
	Visibility    string  `csv:"visibility"`
	InLineOfSight bool    `csv:"in_line_of_sight"`
	Located       bool    `csv:"located"`
	X             float64 `csv:"x"`
	Y             float64 `csv:"y"`
	Z             float64 `csv:"z"`
	Health        string  `csv:"health"`
	Crouching     string  `csv:"crouching"`
	HeldItem      string  `csv:"held_item"`
	LastSeenMs    int64   `csv:"last_seen_ms"` // 0 = never seen directly
}

// Rows flattens a tick report.
func Rows(r botforge.Report) []Row {
	rows := make([]Row, 0, len(r.Players))
	for _, p := range r.Players {
		rows = append(rows, rowFor(r, p))
	}
	return rows
}

func rowFor(r botforge.Report, p sensory.TrackedPlayer) Row {
	row := Row{
		Tick:          r.Tick,
		TimeMs:        r.Time.UnixMilli(),
		PlayerID:      p.ID.String(),
		Name:          p.Name,
		Visibility:    p.Visibility.String(),
		InLineOfSight: p.InLineOfSight,
		Health:        p.Health.String(),
		Crouching:     p.Crouching.String(),
	}
	if p.Position != nil {
		row.Located = true
		row.X, row.Y, row.Z = p.Position.X, p.Position.Y, p.Position.Z
	}
	if p.HeldItem != nil {
		row.HeldItem = p.HeldItem.Name
	}
	if !p.LastSeenAt.IsZero() {
		row.LastSeenMs = p.LastSeenAt.UnixMilli()
	}
	return row
}

// Recorder appends rows to a CSV stream. A nil Recorder discards everything.
type Recorder struct {
	log *slog.Logger

	mu            sync.Mutex
	w             io.Writer
	closer        io.Closer
	headerWritten bool
	rows          int
}

// NewRecorder writes to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w, log: log.Component("trace")}
}

// Create opens a file recorder at path, creating parent directories.
// Returns nil if path is empty (tracing disabled).
func Create(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating trace directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace file: %w", err)
	}

	r := NewRecorder(f)
	r.closer = f
	r.log.Info("tracing", "path", path)
	return r, nil
}

// Record writes one row per tracked player in the report.
func (r *Recorder) Record(rep botforge.Report) error {
	if r == nil {
		return nil
	}
	rows := Rows(rep)
	if len(rows) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(rows, r.w); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(rows, r.w); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}

	r.rows += len(rows)
	return nil
}

// Hook adapts the recorder to a bot tick hook. Write errors are logged.
func (r *Recorder) Hook() botforge.TickHook {
	return func(rep botforge.Report) {
		if err := r.Record(rep); err != nil {
			r.log.Error("trace write failed", "tick", rep.Tick, "error", err)
		}
	}
}

// Count returns the number of rows written.
func (r *Recorder) Count() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows
}

// Close closes the underlying file, if the recorder owns one.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Read decodes a trace written by a Recorder.
func Read(in io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(in, &rows); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return rows, nil
}
