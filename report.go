package ringgen

import (
	"fmt"
	"math"

	"github.com/max-flug/optics-ring-generator/helpers/matter"
	"github.com/max-flug/optics-ring-generator/ring"
)

// Report builds the mesh of p and summarizes it. Printer limit
// violations do not fail the report; they are listed in its notes.
func (g *Generator) Report(p ring.Parameters) (Report, error) {
	sec, m, err := g.Build(p)
	if err != nil {
		return Report{}, err
	}
	v := p.Variant()
	r := Report{
		Code:            v.Code(),
		Label:           v.Label(),
		Description:     v.Description(),
		Filename:        p.Filename(),
		OuterDiameterMM: p.OuterDiameterMM(),
		InnerDiameterMM: p.InnerDiameterMM(),
		WallThicknessMM: p.WallThicknessMM(),
		HeightMM:        sec.Height,
		Segments:        sec.Segments,
		Triangles:       m.Len(),
		VolumeMM3:       m.Volume(),
	}
	if mat := g.Config.Material; mat != nil {
		r.Material = mat.Name()
		r.MassG = matter.MassG(mat, r.VolumeMM3)
		r.PrintBoreMM = mat.InternalDimScale(float64(p.InnerDiameterMM()))
		r.ScaleFactor = mat.ScaleFactor()
	}
	if len(sec.Pads) > 0 {
		pad := sec.Pads[0]
		r.Notes = append(r.Notes,
			fmt.Sprintf("%d contact pads %.0f° apart", len(sec.Pads), 360/float64(len(sec.Pads))),
			fmt.Sprintf("pad width %.1f° x %.2f mm, height %.2f mm", pad.Angle(sec.Segments)*180/math.Pi, pad.OuterR-pad.InnerR, pad.Height),
			fmt.Sprintf("contact area %.2f mm² per pad", pad.TopArea(sec.Segments)),
		)
	}
	if sec.LipRadius > 0 {
		r.Notes = append(r.Notes, fmt.Sprintf("lip radius %.2f mm", sec.LipRadius))
	}
	for _, vi := range matter.Check(p, g.Config.Limits) {
		r.Notes = append(r.Notes, "warning: "+vi.Message)
	}
	return r, nil
}
