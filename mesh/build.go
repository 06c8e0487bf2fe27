package mesh

import (
	"fmt"
	"math"

	"github.com/max-flug/optics-ring-generator/internal/d3"
	"github.com/max-flug/optics-ring-generator/profile"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// WeldTolerance is the distance in millimetres below which pad vertices
// are merged with vertices of the ring body.
const WeldTolerance = 1e-9

// Build sweeps the cross-section a full turn about the Z axis and welds
// its pads onto the resulting body. The returned mesh is closed, wound
// outward and free of degenerate triangles; any other outcome is reported
// as an error describing a builder defect.
func Build(sec profile.Section) (Mesh, error) {
	if err := sec.Validate(); err != nil {
		return Mesh{}, err
	}
	ix := revolve(sec)
	addPads(&ix, sec)
	m := Mesh{Triangles: make([]Triangle, len(ix.Faces))}
	for i, f := range ix.Faces {
		t, err := newTriangle(i, [3]r3.Vec{ix.Vertices[f[0]], ix.Vertices[f[1]], ix.Vertices[f[2]]})
		if err != nil {
			return Mesh{}, err
		}
		m.Triangles[i] = t
	}
	if err := ix.CheckClosed(); err != nil {
		return Mesh{}, err
	}
	if vol := m.Volume(); !(vol > 0) {
		return Mesh{}, fmt.Errorf("%w: enclosed volume %g mm³", ErrInsideOut, vol)
	}
	return m, nil
}

func angle(sec profile.Section, j int) float64 {
	return float64(j%sec.Segments) * 2 * math.Pi / float64(sec.Segments)
}

// revolve sweeps every outline edge except the pad footprints. Vertex
// (k, j) is outline vertex k at angular step j and lives at index j*n+k.
func revolve(sec profile.Section) Indexed {
	n, segments := len(sec.Outline), sec.Segments
	ix := Indexed{
		Vertices: make([]r3.Vec, 0, n*segments),
		Faces:    make([][3]int, 0, 2*n*segments),
	}
	for j := 0; j < segments; j++ {
		theta := angle(sec, j)
		for _, p := range sec.Outline {
			ix.Vertices = append(ix.Vertices, d3.Revolve(p, theta))
		}
	}
	footprint := make(map[[2]int]bool)
	for _, pad := range sec.Pads {
		for j := pad.Start; j < pad.Start+pad.Segments; j++ {
			footprint[[2]int{pad.Edge, j % segments}] = true
		}
	}
	at := func(k, j int) int { return (j%segments)*n + k%n }
	for j := 0; j < segments; j++ {
		for k := 0; k < n; k++ {
			if footprint[[2]int{k, j}] {
				continue
			}
			ix.quad(at(k, j), at(k, j+1), at(k+1, j+1), at(k+1, j))
		}
	}
	return ix
}

// addPads raises an open-bottom annular sector over each pad footprint.
// Bottom vertices are welded to the body so the rim of the pad walls
// and end caps closes the hole left in the body's top face.
func addPads(ix *Indexed, sec profile.Section) {
	if len(sec.Pads) == 0 {
		return
	}
	w := newWelder(&ix.Vertices, WeldTolerance)
	for _, pad := range sec.Pads {
		top := pad.Base + pad.Height
		// Pad cross-section in counter-clockwise order. The bottom edge
		// ib->ob is left open.
		corners := [4]r2.Vec{
			{X: pad.InnerR, Y: pad.Base},
			{X: pad.OuterR, Y: pad.Base},
			{X: pad.OuterR, Y: top},
			{X: pad.InnerR, Y: top},
		}
		var loops [4][]int
		for c, p := range corners {
			loops[c] = make([]int, pad.Segments+1)
			for i := range loops[c] {
				loops[c][i] = w.weld(d3.Revolve(p, angle(sec, pad.Start+i)))
			}
		}
		for c := 1; c < len(corners); c++ {
			next := (c + 1) % len(corners)
			for i := 0; i < pad.Segments; i++ {
				ix.quad(loops[c][i], loops[c][i+1], loops[next][i+1], loops[next][i])
			}
		}
		ib, ob, ot, it := loops[0], loops[1], loops[2], loops[3]
		s, e := 0, pad.Segments
		ix.quad(ib[s], ob[s], ot[s], it[s])
		ix.quad(ib[e], it[e], ot[e], ob[e])
	}
}
