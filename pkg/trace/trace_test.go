package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/pkg/botforge"
	"github.com/botforge/go-botforge/pkg/geom"
	"github.com/botforge/go-botforge/pkg/sensory"
	"github.com/botforge/go-botforge/pkg/world"
)

var (
	alice = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	bob   = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
)

func report(tick uint64) botforge.Report {
	at := time.UnixMilli(1_700_000_000_000 + int64(tick)*50)
	pos := geom.V(1, 64, -3)
	return botforge.Report{
		Tick: tick,
		Time: at,
		Players: []sensory.TrackedPlayer{
			{
				ID:            alice,
				Name:          "alice",
				Position:      &pos,
				HeldItem:      &world.Item{Name: "diamond_sword"},
				Crouching:     sensory.False,
				Health:        sensory.Injured,
				Visibility:    sensory.DirectSight,
				InLineOfSight: true,
				LastSeenAt:    at,
			},
			{ID: bob, Name: "bob", Visibility: sensory.OutOfFOV},
		},
	}
}

func TestRows(t *testing.T) {
	rows := Rows(report(3))
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}

	a := rows[0]
	if !a.Located || a.X != 1 || a.Y != 64 || a.Z != -3 {
		t.Errorf("alice position: %+v", a)
	}
	if a.HeldItem != "diamond_sword" || a.Health != "Injured" || a.Crouching != "false" || a.LastSeenMs == 0 {
		t.Errorf("alice details: %+v", a)
	}

	b := rows[1]
	if b.Located || b.HeldItem != "" || b.Health != "Unknown" || b.Crouching != "unknown" || b.LastSeenMs != 0 {
		t.Errorf("bob: %+v", b)
	}
	if b.Visibility != "OutOfFov" {
		t.Errorf("bob visibility = %q", b.Visibility)
	}
}

func TestRecorder_HeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)

	for tick := uint64(1); tick <= 3; tick++ {
		if err := r.Record(report(tick)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := r.Record(botforge.Report{Tick: 4}); err != nil {
		t.Fatalf("empty report: %v", err)
	}

	if got := strings.Count(buf.String(), "tick,time_ms"); got != 1 {
		t.Errorf("header written %d times", got)
	}
	if r.Count() != 6 {
		t.Errorf("Count = %d, want 6", r.Count())
	}

	rows, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("read %d rows", len(rows))
	}
	if rows[4].Tick != 3 || rows[4].Name != "alice" || !rows[4].InLineOfSight {
		t.Errorf("row 4 = %+v", rows[4])
	}
}

func TestCreate(t *testing.T) {
	r, err := Create("")
	if err != nil || r != nil {
		t.Fatalf("empty path: %v, %v", r, err)
	}

	path := filepath.Join(t.TempDir(), "runs", "trace.csv")
	r, err = Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.Record(report(1)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := Read(f)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("read %d rows", len(rows))
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	if err := r.Record(report(1)); err != nil {
		t.Errorf("Record: %v", err)
	}
	if r.Count() != 0 {
		t.Error("nil recorder counted rows")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestRecorder_BotHook(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	bot := botforge.New(botforge.DefaultConfig(), nil, botforge.WithTickHook(rec.Hook()))

	self := world.Pose{Name: "bot", Height: 1.62}
	enemy := world.Player{ID: alice, Name: "alice", Position: geom.V(0, 0, -10)}
	bot.Tick(world.Snapshot{Self: self, Players: []world.Player{enemy}})
	bot.Tick(world.Snapshot{Self: self, Players: []world.Player{enemy}})

	rows, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("read %d rows", len(rows))
	}
	if rows[0].Tick != 1 || rows[1].Tick != 2 {
		t.Errorf("ticks = %d, %d", rows[0].Tick, rows[1].Tick)
	}
	if rows[1].Visibility != "DirectSight" {
		t.Errorf("visibility = %q", rows[1].Visibility)
	}
}
