package profile

import (
	"errors"
	"fmt"
	"math"
)

// Config holds the tunable constants of cross-section construction.
// Segments directly determines the triangle count of a ring.
type Config struct {
	// Segments is the number of angular steps of the 360° sweep for rings
	// up to ScaleAboveDiameterMM outer diameter.
	Segments int `mapstructure:"segments" yaml:"segments"`
	// ScaleAboveDiameterMM is the outer diameter above which Segments grows
	// proportionally to the diameter, bounding chord length.
	ScaleAboveDiameterMM float64 `mapstructure:"scale_above_diameter_mm" yaml:"scale_above_diameter_mm"`
	// MaxSegments caps the scaled segment count.
	MaxSegments int `mapstructure:"max_segments" yaml:"max_segments"`
	// ArcFacets is the number of straight facets approximating a lip arc.
	ArcFacets int `mapstructure:"arc_facets" yaml:"arc_facets"`
	// LipFraction is the lip arc radius as a fraction of wall thickness.
	LipFraction float64 `mapstructure:"lip_fraction" yaml:"lip_fraction"`
	// Ring height is max(MinHeightMM, HeightFraction*wall).
	MinHeightMM    float64 `mapstructure:"min_height_mm" yaml:"min_height_mm"`
	HeightFraction float64 `mapstructure:"height_fraction" yaml:"height_fraction"`
	// PadSegments is the angular width of a three-point pad in sweep steps.
	// It must be even so each pad is centered on a sweep step.
	PadSegments int `mapstructure:"pad_segments" yaml:"pad_segments"`
	// PadWidthFraction is the radial pad width as a fraction of wall thickness.
	PadWidthFraction float64 `mapstructure:"pad_width_fraction" yaml:"pad_width_fraction"`
	// Pad height is min(PadMaxHeightMM, PadHeightFraction*wall).
	PadHeightFraction float64 `mapstructure:"pad_height_fraction" yaml:"pad_height_fraction"`
	PadMaxHeightMM    float64 `mapstructure:"pad_max_height_mm" yaml:"pad_max_height_mm"`
}

// DefaultConfig returns the resolution used by the command line tool:
// 64 segments up to 100mm outer diameter, 8 facet lips.
func DefaultConfig() Config {
	return Config{
		Segments:             64,
		ScaleAboveDiameterMM: 100,
		MaxSegments:          1024,
		ArcFacets:            8,
		LipFraction:          0.4,
		MinHeightMM:          2,
		HeightFraction:       0.5,
		PadSegments:          2,
		PadWidthFraction:     0.5,
		PadHeightFraction:    0.5,
		PadMaxHeightMM:       1.5,
	}
}

// Validate checks the configuration can produce non-degenerate sections.
func (c Config) Validate() error {
	switch {
	case c.Segments < 12:
		return fmt.Errorf("segments must be at least 12, got %d", c.Segments)
	case c.MaxSegments < c.Segments:
		return fmt.Errorf("max segments %d below segments %d", c.MaxSegments, c.Segments)
	case !(c.ScaleAboveDiameterMM > 0):
		return errors.New("segment scaling diameter must be positive")
	case c.ArcFacets < 1:
		return fmt.Errorf("arc facets must be at least 1, got %d", c.ArcFacets)
	case !(c.LipFraction > 0 && c.LipFraction < 1):
		return fmt.Errorf("lip fraction must be in (0,1), got %g", c.LipFraction)
	case !(c.MinHeightMM > 0) || !(c.HeightFraction > 0):
		return errors.New("ring height parameters must be positive")
	case c.LipFraction >= c.HeightFraction:
		return fmt.Errorf("lip fraction %g must be below height fraction %g", c.LipFraction, c.HeightFraction)
	case c.PadSegments < 1 || 3*c.PadSegments >= c.Segments:
		return fmt.Errorf("pad segments %d do not fit three pads in %d segments", c.PadSegments, c.Segments)
	case c.PadSegments%2 != 0:
		return fmt.Errorf("pad segments must be even to center pads on 0°, 120° and 240°, got %d", c.PadSegments)
	case !(c.PadWidthFraction > 0 && c.PadWidthFraction < 1):
		return fmt.Errorf("pad width fraction must be in (0,1), got %g", c.PadWidthFraction)
	case !(c.PadHeightFraction > 0) || !(c.PadMaxHeightMM > 0):
		return errors.New("pad height parameters must be positive")
	}
	return nil
}

// SegmentsFor returns the angular step count for a ring of the given outer
// diameter: Segments up to ScaleAboveDiameterMM, then ceil(Segments*D/ScaleAboveDiameterMM)
// capped at MaxSegments.
func (c Config) SegmentsFor(outerDiameterMM float64) int {
	n := c.Segments
	if outerDiameterMM > c.ScaleAboveDiameterMM {
		n = int(math.Ceil(float64(c.Segments) * outerDiameterMM / c.ScaleAboveDiameterMM))
	}
	if n > c.MaxSegments {
		n = c.MaxSegments
	}
	return n
}
