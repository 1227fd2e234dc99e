package geom

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec
	Max Vec
}

// EntityBox returns the hitbox of an entity standing at feet position pos.
func EntityBox(pos Vec, width, height float64) Box {
	hw := width / 2
	return Box{
		Min: Vec{X: pos.X - hw, Y: pos.Y, Z: pos.Z - hw},
		Max: Vec{X: pos.X + hw, Y: pos.Y + height, Z: pos.Z + hw},
	}
}

// RayBox intersects the ray origin + t*dir, t in [0, maxDist], with b using
// the slab method. It returns the entry distance and whether the ray hits.
// dir is expected to be a unit vector; a ray starting inside b hits at 0.
func RayBox(origin, dir Vec, maxDist float64, b Box) (float64, bool) {
	tMin, tMax := 0.0, maxDist

	axes := [3][4]float64{
		{origin.X, dir.X, b.Min.X, b.Max.X},
		{origin.Y, dir.Y, b.Min.Y, b.Max.Y},
		{origin.Z, dir.Z, b.Min.Z, b.Max.Z},
	}
	for _, a := range axes {
		o, d, lo, hi := a[0], a[1], a[2], a[3]
		if math.Abs(d) < 1e-9 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// DistanceToBox returns the shortest distance from p to b, 0 when p is inside.
func DistanceToBox(p Vec, b Box) float64 {
	dx := math.Max(0, math.Max(b.Min.X-p.X, p.X-b.Max.X))
	dy := math.Max(0, math.Max(b.Min.Y-p.Y, p.Y-b.Max.Y))
	dz := math.Max(0, math.Max(b.Min.Z-p.Z, p.Z-b.Max.Z))
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
