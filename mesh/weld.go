package mesh

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface  = weldPoints{}
	_ kdtree.Comparable = (*weldPoint)(nil)
)

// welder hands out vertex indices, reusing existing vertices closer than
// the welding tolerance to the requested position.
type welder struct {
	tree  *kdtree.Tree
	tol2  float64
	verts *[]r3.Vec
}

// newWelder indexes the current contents of verts. Vertices appended
// later by weld are not searched, so every call must ask for positions
// that are either already indexed or new.
func newWelder(verts *[]r3.Vec, tol float64) *welder {
	pts := make(weldPoints, len(*verts))
	for i, v := range *verts {
		pts[i] = weldPoint{V: v, idx: i}
	}
	return &welder{
		tree:  kdtree.New(pts, false),
		tol2:  tol * tol,
		verts: verts,
	}
}

// weld returns the index of the vertex at v, appending it when no
// indexed vertex lies within tolerance.
func (w *welder) weld(v r3.Vec) int {
	if w.tree.Root != nil {
		got, dist2 := w.tree.Nearest(&weldPoint{V: v})
		if dist2 <= w.tol2 {
			return got.(*weldPoint).idx
		}
	}
	*w.verts = append(*w.verts, v)
	return len(*w.verts) - 1
}

type weldPoint struct {
	V   r3.Vec
	idx int
}

func (p *weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(*weldPoint)
	switch d {
	case 0:
		return p.V.X - q.V.X
	case 1:
		return p.V.Y - q.V.Y
	case 2:
		return p.V.Z - q.V.Z
	}
	panic("unreachable")
}

func (p *weldPoint) Dims() int { return 3 }

func (p *weldPoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(p.V, c.(*weldPoint).V))
}

type weldPoints []weldPoint

// Index returns the ith element of the list of points.
func (w weldPoints) Index(i int) kdtree.Comparable { return &w[i] }

// Len returns the length of the list.
func (w weldPoints) Len() int { return len(w) }

// Pivot partitions the list based on the dimension specified.
func (w weldPoints) Pivot(d kdtree.Dim) int {
	p := weldPlane{dim: d, points: w}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (w weldPoints) Slice(start, end int) kdtree.Interface { return w[start:end] }

type weldPlane struct {
	dim    kdtree.Dim
	points weldPoints
}

func (p weldPlane) Less(i, j int) bool {
	return p.points[i].Compare(&p.points[j], p.dim) < 0
}
func (p weldPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
func (p weldPlane) Len() int {
	return len(p.points)
}
func (p weldPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
