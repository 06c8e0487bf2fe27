package matter

import (
	"fmt"
	"strings"
)

// Material is a printing plastic. Printed parts shrink as they cool, so
// holes come out smaller than modelled and must be compensated for.
type Material interface {
	Name() string
	// InternalDimScale returns the dimension to model so that an internal
	// feature (a bore) of size real comes out at size real once printed.
	InternalDimScale(real float64) float64
	// DensityGPerCM3 returns the density of the printed plastic.
	DensityGPerCM3() float64
	// ScaleFactor returns the uniform scale that undoes cooling shrinkage.
	ScaleFactor() float64
}

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{name: "PLA", shrink: 0.2e-2, pullShrink: .45, density: 1.24} // 0.2% shrinkage
	// PETG prints tougher and more heat resistant than PLA at the cost of more shrinkage.
	PETG = ViscousMaterial{name: "PETG", shrink: 0.4e-2, pullShrink: .3, density: 1.27}
)

var materials = []Material{PLA, PETG}

// MaterialByName looks up a predefined material. Matching ignores case.
func MaterialByName(name string) (Material, error) {
	for _, m := range materials {
		if strings.EqualFold(m.Name(), strings.TrimSpace(name)) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown material %q", name)
}

type ViscousMaterial struct {
	name string
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage of holes in millimetres.
	pullShrink float64
	// density in g/cm³.
	density float64
}

func (m ViscousMaterial) Name() string { return m.name }

func (m ViscousMaterial) DensityGPerCM3() float64 { return m.density }

// ScaleFactor is the uniform scale that undoes thermal contraction
// of the whole part.
func (m ViscousMaterial) ScaleFactor() float64 {
	return 1 / (1 - m.shrink)
}

func (m ViscousMaterial) InternalDimScale(real float64) float64 {
	if real <= 0 {
		panic("InternalDimScale only works for non-zero dimensions")
	}
	return real*(m.shrink+1) + m.pullShrink
}

// MassG returns the mass in grams of volumeMM3 cubic millimetres of m
// printed at full infill.
func MassG(m Material, volumeMM3 float64) float64 {
	return volumeMM3 / 1000 * m.DensityGPerCM3()
}
