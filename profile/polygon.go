package profile

import (
	"errors"
	"fmt"
	"math"

	"github.com/max-flug/optics-ring-generator/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// PolygonBuilder stores a set of 2d polygon vertices whose corners
// may be rounded off or replaced by circular arcs.
type PolygonBuilder struct {
	closed bool            // is the polygon closed or open?
	vlist  []polygonVertex // list of polygon vertices
	err    error           // first error found while applying fixups
}

// polygonVertex is a polygon vertex.
type polygonVertex struct {
	vtype  pvType  // type of polygon vertex
	vertex r2.Vec  // vertex coordinates
	facets int     // number of polygon facets to create when smoothing
	radius float64 // radius of smoothing (0 == none)
}

// pvType is the type of a polygon vertex.
type pvType int

const (
	pvNormal pvType = iota // normal vertex
	pvSmooth               // smooth the vertex
	pvArc                  // replace the line segment with an arc
)

// Smooth marks the polygon vertex for smoothing with a tangent
// circular fillet of the given radius.
func (v *polygonVertex) Smooth(radius float64, facets int) *polygonVertex {
	if radius != 0 && facets != 0 {
		v.radius = radius
		v.facets = facets
		v.vtype = pvSmooth
	}
	return v
}

// Arc replaces the line segment from the previous vertex with a circular arc.
// The sign of the radius selects which side of the chord the arc center lies on.
func (v *polygonVertex) Arc(radius float64, facets int) *polygonVertex {
	if radius != 0 && facets != 0 {
		v.radius = radius
		v.facets = facets
		v.vtype = pvArc
	}
	return v
}

// nextVertex returns the next vertex in the polygon.
func (p *PolygonBuilder) nextVertex(i int) *polygonVertex {
	if i == len(p.vlist)-1 {
		if p.closed {
			return &p.vlist[0]
		}
		return nil
	}
	return &p.vlist[i+1]
}

// prevVertex returns the previous vertex in the polygon.
func (p *PolygonBuilder) prevVertex(i int) *polygonVertex {
	if i == 0 {
		if p.closed {
			return &p.vlist[len(p.vlist)-1]
		}
		return nil
	}
	return &p.vlist[i-1]
}

// arcVertex replaces a line segment with a circular arc.
func (p *PolygonBuilder) arcVertex(i int) bool {
	v := &p.vlist[i]
	if v.vtype != pvArc {
		return false
	}
	// now it's a normal vertex
	v.vtype = pvNormal
	pv := p.prevVertex(i)
	if pv == nil {
		p.setErr(errors.New("arc vertex has no previous vertex"))
		return false
	}
	side := d2.Sign(v.radius)
	radius := math.Abs(v.radius)
	// two points on the chord
	a := pv.vertex
	b := v.vertex
	// normal to chord
	ba := r2.Unit(r2.Sub(b, a))
	n := r2.Scale(side, r2.Vec{X: ba.Y, Y: -ba.X})
	mid := r2.Scale(0.5, r2.Add(a, b))
	dMid := r2.Norm(r2.Sub(mid, a))
	if dMid > radius {
		p.setErr(fmt.Errorf("arc radius %g shorter than half chord %g", radius, dMid))
		return false
	}
	// distance from midpoint to center of arc
	dCenter := math.Sqrt((radius * radius) - (dMid * dMid))
	c := r2.Add(mid, r2.Scale(dCenter, n))
	ac := r2.Unit(r2.Sub(a, c))
	bc := r2.Unit(r2.Sub(b, c))
	dtheta := -side * math.Acos(clampUnit(r2.Dot(ac, bc))) / float64(v.facets)
	rv := d2.Rotate(r2.Sub(a, c), dtheta)
	vlist := make([]polygonVertex, v.facets-1)
	for j := range vlist {
		vlist[j] = polygonVertex{vertex: r2.Add(c, rv)}
		rv = d2.Rotate(rv, dtheta)
	}
	// insert the new vertices between the arc endpoints
	p.vlist = append(p.vlist[:i], append(vlist, p.vlist[i:]...)...)
	return true
}

// createArcs converts polygon line segments to arcs.
func (p *PolygonBuilder) createArcs() {
	done := false
	for !done {
		done = true
		for i := range p.vlist {
			if p.arcVertex(i) {
				done = false
				break
			}
		}
	}
}

// smoothVertex replaces the i-th vertex with a fillet, returns true if it did.
func (p *PolygonBuilder) smoothVertex(i int) bool {
	v := p.vlist[i]
	if v.vtype != pvSmooth {
		return false
	}
	p.vlist[i].vtype = pvNormal
	vn := p.nextVertex(i)
	vp := p.prevVertex(i)
	if vp == nil || vn == nil {
		p.setErr(errors.New("can't smooth the endpoints of an open polygon"))
		return false
	}
	v0 := r2.Unit(r2.Sub(vp.vertex, v.vertex))
	v1 := r2.Unit(r2.Sub(vn.vertex, v.vertex))
	theta := math.Acos(clampUnit(r2.Dot(v0, v1)))
	// distance from vertex to circle tangent
	d1 := v.radius / math.Tan(theta/2.0)
	if d1 > r2.Norm(r2.Sub(vp.vertex, v.vertex)) || d1 > r2.Norm(r2.Sub(vn.vertex, v.vertex)) {
		p.setErr(fmt.Errorf("smoothing radius %g too large for corner at %v", v.radius, v.vertex))
		return false
	}
	p0 := r2.Add(v.vertex, r2.Scale(d1, v0))
	// distance from vertex to circle center
	d2c := v.radius / math.Sin(theta/2.0)
	vc := r2.Unit(r2.Add(v0, v1))
	c := r2.Add(v.vertex, r2.Scale(d2c, vc))
	dtheta := d2.Sign(r2.Cross(v1, v0)) * (math.Pi - theta) / float64(v.facets)
	rv := r2.Sub(p0, c)
	points := make([]polygonVertex, v.facets+1)
	for j := range points {
		points[j] = polygonVertex{vertex: r2.Add(c, rv)}
		rv = d2.Rotate(rv, dtheta)
	}
	// replace the old point with the new points
	p.vlist = append(p.vlist[:i], append(points, p.vlist[i+1:]...)...)
	return true
}

// smoothVertices smoothes the vertices of a polygon.
func (p *PolygonBuilder) smoothVertices() {
	done := false
	for !done {
		done = true
		for i := range p.vlist {
			if p.smoothVertex(i) {
				done = false
				break
			}
		}
	}
}

func (p *PolygonBuilder) setErr(err error) {
	if p.err == nil {
		p.err = err
	}
}

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

// Close closes the polygon.
func (p *PolygonBuilder) Close() {
	p.closed = true
}

// Add an x,y vertex to a polygon.
func (p *PolygonBuilder) Add(x, y float64) *polygonVertex {
	p.vlist = append(p.vlist, polygonVertex{vertex: r2.Vec{X: x, Y: y}})
	return &p.vlist[len(p.vlist)-1]
}

// AppendVertices applies arcs and smoothing and appends the resulting
// vertices to dst. The builder can not be reused afterwards.
func (p *PolygonBuilder) AppendVertices(dst []r2.Vec) ([]r2.Vec, error) {
	if len(p.vlist) == 0 {
		return dst, errors.New("empty polygon")
	}
	p.createArcs()
	p.smoothVertices()
	if p.err != nil {
		return dst, p.err
	}
	for _, pv := range p.vlist {
		dst = append(dst, pv.vertex)
	}
	return dst, nil
}
