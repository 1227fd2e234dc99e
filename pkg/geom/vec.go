// Package geom provides the vector math used by the perception layer:
// angles between directions, the view vector of a yaw/pitch pose, randomized
// spherical-cap sampling for sound fuzzing and ray/box intersection.
//
// Vec is backed by gonum r3.Vec. World axes follow the game convention:
// +Y is up and yaw 0 faces north (-Z).
package geom

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a 3D vector in world coordinates, backed by gonum's r3.Vec.
type Vec r3.Vec

// MarshalJSON encodes v as {"x":..,"y":..,"z":..}. Decoding matches keys
// case-insensitively, so either case is accepted on input.
func (v Vec) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	}{v.X, v.Y, v.Z})
}

func r3v(v Vec) r3.Vec { return r3.Vec(v) }

// V is shorthand for constructing a Vec.
func V(x, y, z float64) Vec {
	return Vec{X: x, Y: y, Z: z}
}

// Offset returns p shifted by (dx, dy, dz).
func Offset(p Vec, dx, dy, dz float64) Vec {
	return Vec(r3.Add(r3v(p), r3.Vec{X: dx, Y: dy, Z: dz}))
}

// Add returns p+q.
func Add(p, q Vec) Vec { return Vec(r3.Add(r3v(p), r3v(q))) }

// Sub returns p-q.
func Sub(p, q Vec) Vec { return Vec(r3.Sub(r3v(p), r3v(q))) }

// Scale returns f*p.
func Scale(f float64, p Vec) Vec { return Vec(r3.Scale(f, r3v(p))) }

// Dot returns the dot product of p and q.
func Dot(p, q Vec) float64 { return r3.Dot(r3v(p), r3v(q)) }

// Norm returns the length of p.
func Norm(p Vec) float64 { return r3.Norm(r3v(p)) }

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Vec) float64 {
	return Norm(Sub(p, q))
}

// Normalize returns the unit vector of p, or the zero vector when p has no length.
// r3.Unit yields NaNs for the zero vector.
func Normalize(p Vec) Vec {
	if Norm(p) == 0 {
		return Vec{}
	}
	return Vec(r3.Unit(r3v(p)))
}

// AngleBetween returns the angle in radians between a and b.
// A zero-length input yields 0.
func AngleBetween(a, b Vec) float64 {
	denom := Norm(a) * Norm(b)
	if denom == 0 {
		return 0
	}
	return math.Acos(clamp(Dot(a, b)/denom, -1, 1))
}

// ViewVector returns the unit look direction for yaw and pitch in radians.
// Yaw 0 looks north (-Z); positive pitch looks down.
func ViewVector(yaw, pitch float64) Vec {
	return Vec{
		X: -math.Sin(yaw) * math.Cos(pitch),
		Y: -math.Sin(pitch),
		Z: -math.Cos(yaw) * math.Cos(pitch),
	}
}

// YawPitch is the inverse of ViewVector: the yaw and pitch that look along
// dir. A zero dir yields (0, 0).
func YawPitch(dir Vec) (yaw, pitch float64) {
	if Norm(dir) == 0 {
		return 0, 0
	}
	return math.Atan2(-dir.X, -dir.Z), math.Atan2(-dir.Y, math.Hypot(dir.X, dir.Z))
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
