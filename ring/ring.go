// Package ring describes a single optics support ring: which contact
// variant it uses and its outer and inner diameters in millimetres.
//
// Parameters are validated on construction and immutable afterwards so
// they can be shared freely between concurrent generators.
package ring

import (
	"fmt"

	math "github.com/chewxy/math32"
)

// MinWallThicknessMM is the thinnest wall New accepts. Printers with
// a 0.4mm nozzle can not lay down fewer than two perimeters below it.
const MinWallThicknessMM = 1.0

// Parameters is a validated ring description. The zero value is not
// a valid ring; use New.
type Parameters struct {
	variant Variant
	outer   float32
	inner   float32
}

// New validates the dimensions and returns the ring they describe.
// The checks run in order: non-positive (or non-finite) dimensions,
// outer not greater than inner, then wall thickness below
// MinWallThicknessMM. Values are never clamped.
func New(v Variant, outerMM, innerMM float32) (Parameters, error) {
	if !v.Valid() {
		return Parameters{}, fmt.Errorf("%w: %d", ErrUnknownVariant, uint8(v))
	}
	for _, d := range [2]float32{outerMM, innerMM} {
		if !(d > 0) || math.IsInf(d, 0) {
			return Parameters{}, &ValidationError{Kind: ErrNonPositiveDimension, Actual: d}
		}
	}
	if outerMM <= innerMM {
		return Parameters{}, &ValidationError{Kind: ErrOuterNotGreaterThanInner, Actual: outerMM - innerMM}
	}
	p := Parameters{variant: v, outer: outerMM, inner: innerMM}
	if wall := p.WallThicknessMM(); wall < MinWallThicknessMM {
		return Parameters{}, &ValidationError{Kind: ErrWallTooThin, Actual: wall, Minimum: MinWallThicknessMM}
	}
	return p, nil
}

// Variant returns the contact variant of the ring.
func (p Parameters) Variant() Variant { return p.variant }

// OuterDiameterMM returns the outer diameter in millimetres.
func (p Parameters) OuterDiameterMM() float32 { return p.outer }

// InnerDiameterMM returns the bore diameter in millimetres.
func (p Parameters) InnerDiameterMM() float32 { return p.inner }

// WallThicknessMM returns half the difference between outer and inner diameter.
func (p Parameters) WallThicknessMM() float32 { return (p.outer - p.inner) / 2 }

func (p Parameters) String() string {
	return fmt.Sprintf("%s ⌀%.1f/%.1fmm", p.variant.Code(), p.outer, p.inner)
}
