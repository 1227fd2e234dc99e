package geom

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// parallelThreshold switches the helper axis when the source direction is
// almost parallel to +X, where the cross product degenerates.
const parallelThreshold = 0.9999

// FuzzyPoint returns a random point on the spherical cap centred on the
// direction from origin to source, with half-angle maxAngleDeg and radius
// equal to the true distance. The distance from origin is preserved exactly
// (within float tolerance); only the direction is perturbed.
//
// cos(theta) is drawn uniformly in [cos(maxAngle), 1], which makes the sample
// uniform over the cap surface rather than clustered at its pole.
// A nil src uses the global random source.
func FuzzyPoint(source, origin Vec, maxAngleDeg float64, src rand.Source) Vec {
	rel := r3.Sub(r3v(source), r3v(origin))
	r := r3.Norm(rel)
	if r == 0 {
		return origin
	}

	s := r3.Scale(1/r, rel)
	cosMax := math.Cos(Radians(maxAngleDeg))

	phi := distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src}.Rand()
	cosTheta := distuv.Uniform{Min: cosMax, Max: 1, Src: src}.Rand()
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	u, v := capBasis(s)

	p := r3.Add(
		r3.Add(
			r3.Scale(r*sinTheta*math.Cos(phi), u),
			r3.Scale(r*sinTheta*math.Sin(phi), v),
		),
		r3.Scale(r*cosTheta, s),
	)
	return Vec(r3.Add(r3v(origin), p))
}

// capBasis completes the unit vector s into an orthonormal basis {u, v, s}.
func capBasis(s r3.Vec) (u, v r3.Vec) {
	helper := r3.Vec{X: 1}
	if math.Abs(s.X) > parallelThreshold {
		helper = r3.Vec{Y: 1}
	}
	u = r3.Unit(r3.Cross(helper, s))
	v = r3.Cross(s, u)
	return u, v
}
