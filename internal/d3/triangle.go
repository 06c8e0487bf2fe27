package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is three vertices in counter-clockwise order when viewed
// from the side its normal points to.
type Triangle [3]r3.Vec

// Cross returns (v1-v0)x(v2-v0). Its norm is twice the triangle area.
func (t Triangle) Cross() r3.Vec {
	return r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
}

// Area returns the triangle's area.
func (t Triangle) Area() float64 {
	return r3.Norm(t.Cross()) / 2
}

// Normal returns the unit normal of the triangle. The result
// is not finite for triangles with no area.
func (t Triangle) Normal() r3.Vec {
	c := t.Cross()
	return r3.Scale(1/r3.Norm(c), c)
}

// SignedVolume returns the signed volume of the tetrahedron formed by
// the triangle and the origin. Summed over a closed, outward wound
// surface it yields the enclosed volume.
func (t Triangle) SignedVolume() float64 {
	return r3.Dot(t[0], r3.Cross(t[1], t[2])) / 6
}

// UnitWithin reports whether n has unit length within tol.
func UnitWithin(n r3.Vec, tol float64) bool {
	return math.Abs(r3.Norm(n)-1) <= tol
}
