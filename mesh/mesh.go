// Package mesh sweeps ring cross-sections into closed triangle meshes.
package mesh

import (
	"fmt"

	"github.com/max-flug/optics-ring-generator/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// AreaEpsilon is the smallest triangle area in square millimetres
// a mesh may contain.
const AreaEpsilon = 1e-6

// Triangle is three vertices wound counter-clockwise when viewed from
// outside the solid, and the outward unit normal they define.
type Triangle struct {
	V [3]r3.Vec
	N r3.Vec
}

// Area returns the triangle's area.
func (t Triangle) Area() float64 { return d3.Triangle(t.V).Area() }

// Mesh is a closed triangulated surface. Triangle order carries no meaning.
type Mesh struct {
	Triangles []Triangle
}

// Len returns the number of triangles.
func (m Mesh) Len() int { return len(m.Triangles) }

// Volume returns the volume enclosed by the mesh using the divergence
// theorem. It is positive for outward wound closed meshes.
func (m Mesh) Volume() float64 {
	var vol float64
	for _, t := range m.Triangles {
		vol += d3.Triangle(t.V).SignedVolume()
	}
	return vol
}

// Area returns the total surface area.
func (m Mesh) Area() float64 {
	var area float64
	for _, t := range m.Triangles {
		area += t.Area()
	}
	return area
}

// Bounds returns the axis aligned bounding box of the mesh.
func (m Mesh) Bounds() r3.Box {
	bb := d3.EmptyBox()
	for _, t := range m.Triangles {
		for _, v := range t.V {
			bb = bb.Include(v)
		}
	}
	return r3.Box(bb)
}

// DegenerateError reports a triangle that collapsed to (nearly) zero area
// or whose normal could not be computed. It is a builder defect.
type DegenerateError struct {
	Index    int
	Triangle [3]r3.Vec
	Area     float64
	Reason   string
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("degenerate triangle %d (%s, area %.3g mm²): %v", e.Index, e.Reason, e.Area, e.Triangle)
}

// newTriangle computes the outward normal of a counter-clockwise wound
// triangle and rejects collapsed geometry.
func newTriangle(i int, v [3]r3.Vec) (Triangle, error) {
	t := d3.Triangle(v)
	area := t.Area()
	if !(area >= AreaEpsilon) {
		return Triangle{}, &DegenerateError{Index: i, Triangle: v, Area: area, Reason: "area below epsilon"}
	}
	n := t.Normal()
	if !d3.Finite(n) || !d3.UnitWithin(n, 1e-9) {
		return Triangle{}, &DegenerateError{Index: i, Triangle: v, Area: area, Reason: "normal not computable"}
	}
	return Triangle{V: v, N: n}, nil
}
