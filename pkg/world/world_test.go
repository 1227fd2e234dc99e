package world

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/pkg/geom"
)

func TestGrid_RaycastHitsWall(t *testing.T) {
	g := NewGrid()
	g.Set(Voxel{0, 1, -5}, "stone")

	eye := geom.V(0.5, 1.8, 0.5)
	target := geom.V(0.5, 1.2, -9.5)
	dir := geom.Normalize(geom.Sub(target, eye))

	b, hit := g.Raycast(eye, dir, geom.Distance(eye, target))
	if !hit {
		t.Fatal("expected the wall to block the ray")
	}
	if b.Name != "stone" {
		t.Errorf("hit %q, want stone", b.Name)
	}
	if b.Position != geom.V(0, 1, -5) {
		t.Errorf("hit position %+v, want (0,1,-5)", b.Position)
	}
}

func TestGrid_RaycastStopsAtMaxDistance(t *testing.T) {
	g := NewGrid()
	g.Set(Voxel{0, 1, -20}, "stone")

	eye := geom.V(0.5, 1.5, 0.5)
	if _, hit := g.Raycast(eye, geom.V(0, 0, -1), 10); hit {
		t.Error("block beyond max distance must not count")
	}
	if _, hit := g.Raycast(eye, geom.V(0, 0, -1), 25); !hit {
		t.Error("block within max distance must count")
	}
}

func TestGrid_PassableBlocks(t *testing.T) {
	g := NewGrid()
	g.Set(Voxel{0, 1, -3}, "water")

	if _, hit := g.Raycast(geom.V(0.5, 1.5, 0.5), geom.V(0, 0, -1), 10); hit {
		t.Error("water must not obstruct")
	}
}

func TestOccludes(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"stone", true},
		{"oak_planks", true},
		{"glass", true},
		{"brown_mushroom_block", true},
		{"short_grass", false},
		{"tall_grass", false},
		{"poppy", false},
		{"red_tulip", false},
		{"oak_sapling", false},
		{"torch", false},
		{"oak_wall_sign", false},
		{"white_carpet", false},
		{"snow", false},
		{"rail", false},
		{"stone_button", false},
		{"light_weighted_pressure_plate", false},
		{"weeping_vines", false},
		{"water", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Occludes(tt.name); got != tt.want {
				t.Errorf("Occludes(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestGrid_RaycastThroughPlants(t *testing.T) {
	g := NewGrid()
	g.Set(Voxel{0, 1, -2}, "short_grass")
	g.Set(Voxel{0, 1, -3}, "poppy")
	g.Set(Voxel{0, 1, -4}, "torch")

	if b, hit := g.Raycast(geom.V(0.5, 1.5, 0.5), geom.V(0, 0, -1), 10); hit {
		t.Errorf("ray stopped at %q", b.Name)
	}

	b, _ := g.BlockAt(geom.V(0.5, 1.5, -1.5))
	if b.Name != "short_grass" || b.Solid {
		t.Errorf("BlockAt = %+v, want non-solid short_grass", b)
	}
}

func TestGrid_ApplySolidOverride(t *testing.T) {
	yes, no := true, false
	g := NewGrid()
	g.Apply([]BlockUpdate{
		{X: 0, Y: 1, Z: -3, Name: "glass", Solid: &no},
		{X: 5, Y: 1, Z: -3, Name: "short_grass", Solid: &yes},
	})

	if _, hit := g.Raycast(geom.V(0.5, 1.5, 0.5), geom.V(0, 0, -1), 10); hit {
		t.Error("sidecar said glass is not solid")
	}
	b, hit := g.Raycast(geom.V(5.5, 1.5, 0.5), geom.V(0, 0, -1), 10)
	if !hit || b.Name != "short_grass" {
		t.Errorf("sidecar said short_grass is solid, got %+v hit=%v", b, hit)
	}
}

func TestGrid_Apply(t *testing.T) {
	g := NewGrid()
	g.Apply([]BlockUpdate{
		{X: 1, Y: 2, Z: 3, Name: "ladder"},
		{X: 4, Y: 5, Z: 6, Name: "stone"},
	})
	if g.Len() != 2 {
		t.Fatalf("Len = %d, want 2", g.Len())
	}

	b, _ := g.BlockAt(geom.V(1.5, 2.9, 3.1))
	if b.Name != "ladder" {
		t.Errorf("BlockAt = %q, want ladder", b.Name)
	}

	g.Apply([]BlockUpdate{{X: 1, Y: 2, Z: 3, Name: ""}})
	b, _ = g.BlockAt(geom.V(1.5, 2.9, 3.1))
	if b.Name != "air" {
		t.Errorf("cleared BlockAt = %q, want air", b.Name)
	}
}

func TestGrid_NegativeCoordinates(t *testing.T) {
	g := NewGrid()
	g.Set(Voxel{-1, -1, -1}, "dirt")

	b, _ := g.BlockAt(geom.V(-0.5, -0.2, -0.9))
	if b.Name != "dirt" {
		t.Errorf("BlockAt = %q, want dirt", b.Name)
	}
}

func TestPose_EyePositionDefaultsHeight(t *testing.T) {
	p := Pose{Position: geom.V(1, 64, 1)}
	if got := p.EyePosition(); math.Abs(got.Y-(64+PlayerHeight)) > 1e-9 {
		t.Errorf("eye y = %v, want %v", got.Y, 64+PlayerHeight)
	}
}

func TestPlayer_StatusBits(t *testing.T) {
	p := Player{Status: FlagOnFire | FlagSprinting}
	if !p.OnFire() || !p.Sprinting() || p.Crouching() {
		t.Errorf("decoded fire=%v sprint=%v crouch=%v", p.OnFire(), p.Sprinting(), p.Crouching())
	}
}

func TestSnapshot_Player(t *testing.T) {
	id := uuid.New()
	s := Snapshot{Players: []Player{{ID: uuid.New()}, {ID: id, Name: "target"}}}

	p, ok := s.Player(id)
	if !ok || p.Name != "target" {
		t.Errorf("Player(%v) = %+v, %v", id, p, ok)
	}
	if _, ok := s.Player(uuid.New()); ok {
		t.Error("unknown id must not be found")
	}
}
