package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// R2 helpers for ring cross-sections. X is the radial coordinate
// and Y the height above the print bed.

func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// Finite reports whether both components are neither NaN nor infinite.
func Finite(a r2.Vec) bool {
	return !math.IsNaN(a.X) && !math.IsInf(a.X, 0) &&
		!math.IsNaN(a.Y) && !math.IsInf(a.Y, 0)
}

// Sign returns the sign of x.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

// Rotate rotates v counter-clockwise about the origin by theta radians.
func Rotate(v r2.Vec, theta float64) r2.Vec {
	s, c := math.Sincos(theta)
	return r2.Vec{
		X: c*v.X - s*v.Y,
		Y: s*v.X + c*v.Y,
	}
}

type Set []r2.Vec

// SignedArea returns the shoelace area of the closed polygon a.
// The result is positive for counter-clockwise vertex order.
func (a Set) SignedArea() float64 {
	var sum float64
	n := len(a)
	for i := range a {
		sum += r2.Cross(a[i], a[(i+1)%n])
	}
	return sum / 2
}

// Centroid returns the area centroid of the closed polygon a.
// Pappus' theorem turns its X component into a revolved volume.
func (a Set) Centroid() r2.Vec {
	var cx, cy, sum float64
	n := len(a)
	for i := range a {
		p, q := a[i], a[(i+1)%n]
		cross := r2.Cross(p, q)
		sum += cross
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	if sum == 0 {
		return r2.Vec{}
	}
	return r2.Vec{X: cx / (3 * sum), Y: cy / (3 * sum)}
}
