// Package matter checks rings and meshes against the limits of desktop
// 3D printers and models the plastics they print with.
package matter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/max-flug/optics-ring-generator/mesh"
	"github.com/max-flug/optics-ring-generator/ring"
)

// Violation codes.
const (
	WallTooThin     = "wall-too-thin"
	BoreTooSmall    = "bore-too-small"
	ExceedsBed      = "exceeds-bed"
	ExceedsBedZ     = "exceeds-bed-height"
	NotClosed       = "not-closed"
	DegenerateFaces = "degenerate-faces"
	NoVolume        = "no-volume"
)

// ErrNotPrintable matches any Violations with errors.Is.
var ErrNotPrintable = errors.New("not printable")

// Limits are the printability constraints a ring is checked against.
type Limits struct {
	MinWallThicknessMM float32 `mapstructure:"min_wall_thickness_mm" yaml:"min_wall_thickness_mm"`
	MinInnerDiameterMM float32 `mapstructure:"min_inner_diameter_mm" yaml:"min_inner_diameter_mm"`
	// Print bed build volume.
	BedWidthMM  float32 `mapstructure:"bed_width_mm" yaml:"bed_width_mm"`
	BedDepthMM  float32 `mapstructure:"bed_depth_mm" yaml:"bed_depth_mm"`
	BedHeightMM float32 `mapstructure:"bed_height_mm" yaml:"bed_height_mm"`
}

// DefaultLimits returns limits suited to a common 220x220x250 mm printer.
func DefaultLimits() Limits {
	return Limits{
		MinWallThicknessMM: ring.MinWallThicknessMM,
		MinInnerDiameterMM: 2,
		BedWidthMM:         220,
		BedDepthMM:         220,
		BedHeightMM:        250,
	}
}

// Validate checks every limit is a positive finite number.
func (l Limits) Validate() error {
	for _, f := range []struct {
		name string
		v    float32
	}{
		{"minimum wall thickness", l.MinWallThicknessMM},
		{"minimum inner diameter", l.MinInnerDiameterMM},
		{"bed width", l.BedWidthMM},
		{"bed depth", l.BedDepthMM},
		{"bed height", l.BedHeightMM},
	} {
		if !(f.v > 0) || math32.IsInf(f.v, 0) {
			return fmt.Errorf("%s limit must be positive, got %g", f.name, f.v)
		}
	}
	return nil
}

// Violation is a single broken printability constraint.
type Violation struct {
	Code    string
	Message string
	Actual  float64
	Limit   float64
}

func (v Violation) String() string {
	return v.Code + ": " + v.Message
}

// Violations is an ordered list of broken constraints. A non-empty
// Violations is an error.
type Violations []Violation

func (vs Violations) Error() string {
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.String()
	}
	return "ring not printable: " + strings.Join(msgs, "; ")
}

func (vs Violations) Is(target error) bool { return target == ErrNotPrintable }

// Err returns vs as an error, nil if vs is empty.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	return vs
}

// Has reports whether vs holds a violation with the given code.
func (vs Violations) Has(code string) bool {
	for _, v := range vs {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Check validates ring parameters before any geometry is built. Violations
// are ordered: wall thickness, inner bore, bed footprint.
func Check(p ring.Parameters, l Limits) Violations {
	var vs Violations
	if wall := p.WallThicknessMM(); wall < l.MinWallThicknessMM {
		vs = append(vs, Violation{
			Code:    WallTooThin,
			Message: fmt.Sprintf("wall thickness %.2fmm below minimum %.2fmm", wall, l.MinWallThicknessMM),
			Actual:  float64(wall),
			Limit:   float64(l.MinWallThicknessMM),
		})
	}
	if inner := p.InnerDiameterMM(); inner < l.MinInnerDiameterMM {
		vs = append(vs, Violation{
			Code:    BoreTooSmall,
			Message: fmt.Sprintf("inner diameter %.2fmm below minimum %.2fmm", inner, l.MinInnerDiameterMM),
			Actual:  float64(inner),
			Limit:   float64(l.MinInnerDiameterMM),
		})
	}
	bed := math32.Min(l.BedWidthMM, l.BedDepthMM)
	if outer := p.OuterDiameterMM(); outer > bed {
		vs = append(vs, Violation{
			Code:    ExceedsBed,
			Message: fmt.Sprintf("outer diameter %.2fmm does not fit %gx%gmm bed", outer, l.BedWidthMM, l.BedDepthMM),
			Actual:  float64(outer),
			Limit:   float64(bed),
		})
	}
	return vs
}

// closedTol is the vertex sharing tolerance used to check meshes.
// It is far below the smallest edge of any generated ring.
const closedTol = 1e-6

// CheckMesh validates the generated geometry. Violations are ordered:
// bed footprint, bed height, closed surface, degenerate triangles, volume.
func CheckMesh(m mesh.Mesh, l Limits) Violations {
	var vs Violations
	if m.Len() == 0 {
		return Violations{{Code: NoVolume, Message: "mesh has no triangles"}}
	}
	size := m.Bounds()
	dx, dy, dz := size.Max.X-size.Min.X, size.Max.Y-size.Min.Y, size.Max.Z-size.Min.Z
	if dx > float64(l.BedWidthMM) || dy > float64(l.BedDepthMM) {
		vs = append(vs, Violation{
			Code:    ExceedsBed,
			Message: fmt.Sprintf("footprint %.2fx%.2fmm does not fit %gx%gmm bed", dx, dy, l.BedWidthMM, l.BedDepthMM),
			Actual:  max(dx, dy),
			Limit:   float64(math32.Min(l.BedWidthMM, l.BedDepthMM)),
		})
	}
	if dz > float64(l.BedHeightMM) {
		vs = append(vs, Violation{
			Code:    ExceedsBedZ,
			Message: fmt.Sprintf("height %.2fmm exceeds %gmm build height", dz, l.BedHeightMM),
			Actual:  dz,
			Limit:   float64(l.BedHeightMM),
		})
	}
	ix, err := mesh.Index(m, closedTol)
	if err == nil {
		err = ix.CheckClosed()
	}
	if err != nil {
		vs = append(vs, Violation{Code: NotClosed, Message: err.Error()})
	}
	var degenerate int
	for _, t := range m.Triangles {
		if !(t.Area() >= mesh.AreaEpsilon) {
			degenerate++
		}
	}
	if degenerate > 0 {
		vs = append(vs, Violation{
			Code:    DegenerateFaces,
			Message: fmt.Sprintf("%d triangles below %g mm² area", degenerate, mesh.AreaEpsilon),
			Actual:  float64(degenerate),
		})
	}
	if vol := m.Volume(); !(vol > 0) {
		vs = append(vs, Violation{
			Code:    NoVolume,
			Message: fmt.Sprintf("enclosed volume %g mm³ is not positive", vol),
			Actual:  vol,
		})
	}
	return vs
}
