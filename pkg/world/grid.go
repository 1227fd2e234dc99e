package world

import (
	"math"
	"strings"
	"sync"

	"github.com/botforge/go-botforge/pkg/geom"
)

// Occlusion follows collision shape, not block name alone: the grid has no
// sub-voxel shapes, so blocks without a collision box, or with only a thin
// one a sight line passes over, never stop a ray. A sidecar that knows the
// real shape reports it with BlockUpdate.Solid, which wins over this table.
var passable = map[string]bool{
	"air": true, "cave_air": true, "void_air": true, "light": true, "structure_void": true,
	"water": true, "lava": true, "bubble_column": true,
	"grass": true, "short_grass": true, "tall_grass": true, "fern": true, "large_fern": true,
	"dead_bush": true, "seagrass": true, "tall_seagrass": true, "kelp": true, "kelp_plant": true,
	"dandelion": true, "poppy": true, "blue_orchid": true, "allium": true, "azure_bluet": true,
	"oxeye_daisy": true, "cornflower": true, "lily_of_the_valley": true, "wither_rose": true,
	"torchflower": true, "sunflower": true, "lilac": true, "rose_bush": true, "peony": true,
	"pink_petals": true, "brown_mushroom": true, "red_mushroom": true,
	"crimson_fungus": true, "warped_fungus": true, "crimson_roots": true, "warped_roots": true,
	"nether_sprouts": true, "hanging_roots": true, "glow_lichen": true, "sculk_vein": true,
	"wheat": true, "carrots": true, "potatoes": true, "beetroots": true, "sugar_cane": true,
	"nether_wart": true, "sweet_berry_bush": true, "melon_stem": true, "pumpkin_stem": true,
	"attached_melon_stem": true, "attached_pumpkin_stem": true, "lily_pad": true,
	"torch": true, "wall_torch": true, "soul_torch": true, "soul_wall_torch": true,
	"redstone_torch": true, "redstone_wall_torch": true, "redstone_wire": true,
	"tripwire": true, "tripwire_hook": true, "lever": true,
	"rail": true, "powered_rail": true, "detector_rail": true, "activator_rail": true,
	"fire": true, "soul_fire": true, "cobweb": true, "snow": true, "ladder": true,
}

// passableSuffixes cover block families with many wood, color or coral variants.
var passableSuffixes = []string{
	"_tulip", "_sapling", "_sign", "_banner", "_button", "_pressure_plate",
	"_carpet", "_coral", "_coral_fan", "_coral_wall_fan",
}

// Occludes reports whether a block named name stops a sight line or the
// crosshair when the sidecar does not say.
func Occludes(name string) bool {
	if name == "" || passable[name] {
		return false
	}
	if strings.Contains(name, "vine") {
		return false
	}
	for _, suffix := range passableSuffixes {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}

// Voxel is an integer block coordinate.
type Voxel struct {
	X, Y, Z int
}

// VoxelOf returns the voxel containing p.
func VoxelOf(p geom.Vec) Voxel {
	return Voxel{
		X: int(math.Floor(p.X)),
		Y: int(math.Floor(p.Y)),
		Z: int(math.Floor(p.Z)),
	}
}

// BlockUpdate sets (or with an empty name, clears) one voxel. Solid, when
// present, overrides the name-based Occludes rule.
type BlockUpdate struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Z     int    `json:"z"`
	Name  string `json:"name"`
	Solid *bool  `json:"solid,omitempty"`
}

type cell struct {
	name  string
	solid bool
}

// Grid is a sparse voxel world kept in sync by the game-client bridge.
// Voxels that were never set read as air.
type Grid struct {
	mu     sync.RWMutex
	blocks map[Voxel]cell
}

// NewGrid creates an empty grid.
func NewGrid() *Grid {
	return &Grid{blocks: make(map[Voxel]cell)}
}

// Set places a block, occluding per Occludes. An empty name or "air" clears
// the voxel.
func (g *Grid) Set(v Voxel, name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.set(v, name, nil)
}

func (g *Grid) set(v Voxel, name string, solid *bool) {
	if name == "" || name == "air" {
		delete(g.blocks, v)
		return
	}
	c := cell{name: name, solid: Occludes(name)}
	if solid != nil {
		c.solid = *solid
	}
	g.blocks[v] = c
}

// Apply applies a batch of updates atomically.
func (g *Grid) Apply(updates []BlockUpdate) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range updates {
		g.set(Voxel{u.X, u.Y, u.Z}, u.Name, u.Solid)
	}
}

// Reset drops every block.
func (g *Grid) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.blocks = make(map[Voxel]cell)
}

// Len returns the number of stored blocks.
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.blocks)
}

// BlockAt returns the block containing pos.
func (g *Grid) BlockAt(pos geom.Vec) (Block, bool) {
	v := VoxelOf(pos)
	g.mu.RLock()
	c, ok := g.blocks[v]
	g.mu.RUnlock()
	if !ok {
		c.name = "air"
	}
	return Block{Name: c.name, Position: v.corner(), Solid: c.solid}, true
}

// Raycast walks the voxels crossed by the ray (Amanatides-Woo DDA) and
// returns the first one holding an obstructing block.
func (g *Grid) Raycast(origin, dir geom.Vec, maxDist float64) (Block, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.blocks) == 0 || maxDist <= 0 {
		return Block{}, false
	}

	cur := VoxelOf(origin)
	stepX, tMaxX, tDeltaX := dda(origin.X, dir.X)
	stepY, tMaxY, tDeltaY := dda(origin.Y, dir.Y)
	stepZ, tMaxZ, tDeltaZ := dda(origin.Z, dir.Z)

	t := 0.0
	for t <= maxDist {
		if c, ok := g.blocks[cur]; ok && c.solid {
			return Block{Name: c.name, Position: cur.corner(), Solid: true}, true
		}
		switch {
		case tMaxX < tMaxY && tMaxX < tMaxZ:
			t = tMaxX
			cur.X += stepX
			tMaxX += tDeltaX
		case tMaxY < tMaxZ:
			t = tMaxY
			cur.Y += stepY
			tMaxY += tDeltaY
		default:
			t = tMaxZ
			cur.Z += stepZ
			tMaxZ += tDeltaZ
		}
		if math.IsInf(t, 1) {
			break
		}
	}
	return Block{}, false
}

// dda returns the step direction, the ray distance to the first voxel
// boundary and the distance between boundaries along one axis.
func dda(o, d float64) (step int, tMax, tDelta float64) {
	switch {
	case d > 0:
		return 1, (math.Floor(o) + 1 - o) / d, 1 / d
	case d < 0:
		return -1, (o - math.Floor(o)) / -d, -1 / d
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}

func (v Voxel) corner() geom.Vec {
	return geom.V(float64(v.X), float64(v.Y), float64(v.Z))
}
