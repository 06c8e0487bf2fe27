// Package profile builds the 2D cross-sections swept around the ring axis.
//
// Cross-sections live in the (r, z) half plane: X is the distance from the
// ring axis and Y the height above the print bed. Outlines are closed and
// counter-clockwise so their right hand normals point out of the material.
package profile

import (
	"errors"
	"fmt"
	"math"

	"github.com/max-flug/optics-ring-generator/internal/d2"
	"github.com/max-flug/optics-ring-generator/ring"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerate is wrapped by errors for cross-sections that can not
// be swept into a valid solid. It always indicates a builder defect.
var ErrDegenerate = errors.New("degenerate cross-section")

const vertexTol = 1e-9

// Profiler produces the cross-section of one ring variant.
type Profiler interface {
	Section(p ring.Parameters, cfg Config) (Section, error)
}

// Section is the shape the mesh builder sweeps.
type Section struct {
	// Outline is the closed, counter-clockwise cross-section.
	Outline []r2.Vec
	// Segments is the number of angular steps of the sweep.
	Segments int
	// Height is the ring body height, excluding pads.
	Height float64
	// LipRadius is the radius of the bore lip arc, zero if there is none.
	LipRadius float64
	// Pads are raised contact pads welded onto the swept body.
	Pads []Pad
}

// Pad is an annular sector raised above one horizontal outline edge.
// Its footprint covers angular steps [Start, Start+Segments) modulo
// the section's segment count.
type Pad struct {
	// Edge is the index i of the outline edge Outline[i]->Outline[i+1]
	// the pad stands on. The edge runs inward, from OuterR to InnerR.
	Edge           int
	Start          int
	Segments       int
	InnerR, OuterR float64
	Base, Height   float64
}

// Angle returns the angular width of the pad in radians.
func (pad Pad) Angle(segments int) float64 {
	return float64(pad.Segments) * 2 * math.Pi / float64(segments)
}

// TopArea returns the contact area of the pad top in square millimetres.
func (pad Pad) TopArea(segments int) float64 {
	return pad.Angle(segments) / 2 * (pad.OuterR*pad.OuterR - pad.InnerR*pad.InnerR)
}

var profilers = map[ring.Variant]Profiler{
	ring.Convex:     convex{},
	ring.Concave:    concave{},
	ring.ThreePoint: threePoint{},
}

// For returns the Profiler of variant v.
func For(v ring.Variant) (Profiler, error) {
	pf, ok := profilers[v]
	if !ok {
		return nil, fmt.Errorf("no profile for %w %d", ring.ErrUnknownVariant, uint8(v))
	}
	return pf, nil
}

// Build returns the checked cross-section of the ring described by p.
func Build(p ring.Parameters, cfg Config) (Section, error) {
	if err := cfg.Validate(); err != nil {
		return Section{}, fmt.Errorf("profile config: %w", err)
	}
	pf, err := For(p.Variant())
	if err != nil {
		return Section{}, err
	}
	sec, err := pf.Section(p, cfg)
	if err != nil {
		return Section{}, fmt.Errorf("%v section: %w", p.Variant().Label(), err)
	}
	if err := sec.Validate(); err != nil {
		return Section{}, fmt.Errorf("%v section: %w", p.Variant().Label(), err)
	}
	return sec, nil
}

// Validate checks the outline can be revolved without producing
// collapsed or inverted geometry.
func (s Section) Validate() error {
	n := len(s.Outline)
	if n < 3 {
		return fmt.Errorf("%w: %d outline vertices", ErrDegenerate, n)
	}
	if s.Segments < 3 {
		return fmt.Errorf("%w: %d segments", ErrDegenerate, s.Segments)
	}
	for i, v := range s.Outline {
		if !d2.Finite(v) {
			return fmt.Errorf("%w: vertex %d not finite: %v", ErrDegenerate, i, v)
		}
		if !(v.X > 0) {
			return fmt.Errorf("%w: vertex %d on or across the ring axis: %v", ErrDegenerate, i, v)
		}
		if d2.EqualWithin(v, s.Outline[(i+1)%n], vertexTol) {
			return fmt.Errorf("%w: vertex %d repeated", ErrDegenerate, i)
		}
	}
	if area := d2.Set(s.Outline).SignedArea(); !(area > 0) {
		return fmt.Errorf("%w: outline area %g, want positive counter-clockwise", ErrDegenerate, area)
	}
	used := make([]bool, s.Segments)
	for i, pad := range s.Pads {
		if pad.Edge < 0 || pad.Edge >= n {
			return fmt.Errorf("%w: pad %d edge %d out of range", ErrDegenerate, i, pad.Edge)
		}
		a, b := s.Outline[pad.Edge], s.Outline[(pad.Edge+1)%n]
		if a.Y != pad.Base || b.Y != pad.Base || a.X != pad.OuterR || b.X != pad.InnerR {
			return fmt.Errorf("%w: pad %d footprint does not match edge %d", ErrDegenerate, i, pad.Edge)
		}
		if !(pad.Height > 0) || !(pad.OuterR > pad.InnerR) || pad.Segments < 1 {
			return fmt.Errorf("%w: pad %d has no volume", ErrDegenerate, i)
		}
		for j := 0; j < pad.Segments; j++ {
			k := (pad.Start + j) % s.Segments
			if used[k] {
				return fmt.Errorf("%w: pads overlap at segment %d", ErrDegenerate, k)
			}
			used[k] = true
		}
	}
	return nil
}

// dims are the cross-section dimensions shared by all variants.
type dims struct {
	ri, ro float64 // inner and outer radius
	wall   float64
	height float64
}

func dimensionsOf(p ring.Parameters, cfg Config) dims {
	ri := float64(p.InnerDiameterMM()) / 2
	ro := float64(p.OuterDiameterMM()) / 2
	wall := ro - ri
	return dims{
		ri:     ri,
		ro:     ro,
		wall:   wall,
		height: math.Max(cfg.MinHeightMM, cfg.HeightFraction*wall),
	}
}
