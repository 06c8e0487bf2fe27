package profile

import (
	"math"

	"github.com/max-flug/optics-ring-generator/ring"
)

// convex rings round off the top of the bore with a fillet, so the lens
// rests on a lip curving toward the ring axis.
type convex struct{}

func (convex) Section(p ring.Parameters, cfg Config) (Section, error) {
	d := dimensionsOf(p, cfg)
	lip := cfg.LipFraction * d.wall
	var poly PolygonBuilder
	poly.Add(d.ri, 0)
	poly.Add(d.ro, 0)
	poly.Add(d.ro, d.height)
	poly.Add(d.ri, d.height).Smooth(lip, cfg.ArcFacets)
	poly.Close()
	outline, err := poly.AppendVertices(nil)
	if err != nil {
		return Section{}, err
	}
	return Section{
		Outline:   outline,
		Segments:  cfg.SegmentsFor(float64(p.OuterDiameterMM())),
		Height:    d.height,
		LipRadius: lip,
	}, nil
}

// concave rings cut a cove into the top of the bore, cradling the lens
// edge in a seat curving away from the ring axis.
type concave struct{}

func (concave) Section(p ring.Parameters, cfg Config) (Section, error) {
	d := dimensionsOf(p, cfg)
	lip := cfg.LipFraction * d.wall
	var poly PolygonBuilder
	poly.Add(d.ri, 0)
	poly.Add(d.ro, 0)
	poly.Add(d.ro, d.height)
	poly.Add(d.ri+lip, d.height)
	// Positive radius puts the arc center at the bore's top corner.
	poly.Add(d.ri, d.height-lip).Arc(lip, cfg.ArcFacets)
	poly.Close()
	outline, err := poly.AppendVertices(nil)
	if err != nil {
		return Section{}, err
	}
	return Section{
		Outline:   outline,
		Segments:  cfg.SegmentsFor(float64(p.OuterDiameterMM())),
		Height:    d.height,
		LipRadius: lip,
	}, nil
}

// threePoint rings are a plain rectangular band with three pads on top,
// centered at 0°, 120° and 240°.
type threePoint struct{}

const padCount = 3

// padEdge is the outline edge the pads stand on.
const padEdge = 3

func (threePoint) Section(p ring.Parameters, cfg Config) (Section, error) {
	d := dimensionsOf(p, cfg)
	segments := threePointSegments(cfg, float64(p.OuterDiameterMM()))
	mid := (d.ri + d.ro) / 2
	halfWidth := cfg.PadWidthFraction * d.wall / 2
	padIn, padOut := mid-halfWidth, mid+halfWidth
	padHeight := math.Min(cfg.PadMaxHeightMM, cfg.PadHeightFraction*d.wall)

	var poly PolygonBuilder
	poly.Add(d.ri, 0)
	poly.Add(d.ro, 0)
	poly.Add(d.ro, d.height)
	poly.Add(padOut, d.height) // Pad footprint edge starts here.
	poly.Add(padIn, d.height)
	poly.Add(d.ri, d.height)
	poly.Close()
	outline, err := poly.AppendVertices(nil)
	if err != nil {
		return Section{}, err
	}
	pads := make([]Pad, padCount)
	for k := range pads {
		center := k * segments / padCount
		pads[k] = Pad{
			Edge:     padEdge,
			Start:    (center - cfg.PadSegments/2 + segments) % segments,
			Segments: cfg.PadSegments,
			InnerR:   padIn,
			OuterR:   padOut,
			Base:     d.height,
			Height:   padHeight,
		}
	}
	return Section{
		Outline:  outline,
		Segments: segments,
		Height:   d.height,
		Pads:     pads,
	}, nil
}

// threePointSegments rounds the segment count to a multiple of three
// so pad centers fall exactly 120° apart.
func threePointSegments(cfg Config, outerDiameterMM float64) int {
	n := cfg.SegmentsFor(outerDiameterMM)
	if r := n % padCount; r != 0 {
		n += padCount - r
		if n > cfg.MaxSegments {
			n -= padCount
		}
	}
	return n
}
