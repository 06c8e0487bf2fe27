package mesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrNotClosed is returned for surfaces with boundary or
	// non-manifold edges. For generated meshes it is a builder defect.
	ErrNotClosed = errors.New("mesh surface not closed")
	// ErrInsideOut is returned for closed surfaces enclosing negative volume.
	ErrInsideOut = errors.New("mesh wound inside out")
)

// Indexed is a triangle mesh with shared vertices. Faces index Vertices
// and are wound counter-clockwise when viewed from outside.
type Indexed struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

// Index shares vertices of m that round to the same point of a grid
// with spacing tol. tol should be orders of magnitude below the shortest
// triangle edge.
func Index(m Mesh, tol float64) (Indexed, error) {
	if !(tol > 0) {
		return Indexed{}, fmt.Errorf("vertex tolerance must be positive, got %g", tol)
	}
	if len(m.Triangles) == 0 {
		return Indexed{}, nil
	}
	bb := m.Bounds()
	for _, c := range []float64{bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z} {
		if math.Abs(c)/tol > math.MaxInt64/2 {
			return Indexed{}, errors.New("tolerance too small. overflowed int64")
		}
	}
	ri := 1 / tol
	// vertex index cache
	cache := make(map[[3]int64]int)
	ix := Indexed{Faces: make([][3]int, len(m.Triangles))}
	for i, t := range m.Triangles {
		for j, vert := range t.V {
			v := r3.Scale(ri, vert)
			key := [3]int64{int64(math.Round(v.X)), int64(math.Round(v.Y)), int64(math.Round(v.Z))}
			idx, ok := cache[key]
			if !ok {
				idx = len(ix.Vertices)
				cache[key] = idx
				ix.Vertices = append(ix.Vertices, vert)
			}
			ix.Faces[i][j] = idx
		}
	}
	return ix, nil
}

// Edges returns the number of distinct undirected edges.
func (ix Indexed) Edges() int {
	seen := make(map[[2]int]struct{}, 3*len(ix.Faces)/2)
	for _, f := range ix.Faces {
		for j := range f {
			e := [2]int{f[j], f[(j+1)%3]}
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			seen[e] = struct{}{}
		}
	}
	return len(seen)
}

// CheckClosed verifies every directed edge is used by exactly one face
// and its reverse by exactly one other face, so the surface has no holes,
// no flipped faces and no edges shared by more than two faces.
func (ix Indexed) CheckClosed() error {
	if len(ix.Faces) == 0 {
		return fmt.Errorf("%w: no faces", ErrNotClosed)
	}
	directed := make(map[[2]int]int, 3*len(ix.Faces))
	for i, f := range ix.Faces {
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			return fmt.Errorf("%w: face %d collapses to an edge", ErrNotClosed, i)
		}
		for j := range f {
			directed[[2]int{f[j], f[(j+1)%3]}]++
		}
	}
	for i, f := range ix.Faces {
		for j := range f {
			a, b := f[j], f[(j+1)%3]
			if n := directed[[2]int{a, b}]; n != 1 {
				return fmt.Errorf("%w: face %d edge %d->%d used %d times", ErrNotClosed, i, a, b, n)
			}
			if n := directed[[2]int{b, a}]; n != 1 {
				return fmt.Errorf("%w: face %d edge %d->%d has %d opposite edges", ErrNotClosed, i, a, b, n)
			}
		}
	}
	return nil
}

// quad appends the two triangles of the quad a,b,c,d given in
// counter-clockwise order as seen from outside.
func (ix *Indexed) quad(a, b, c, d int) {
	ix.Faces = append(ix.Faces, [3]int{a, b, c}, [3]int{a, c, d})
}
