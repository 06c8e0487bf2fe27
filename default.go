package ringgen

import (
	"github.com/max-flug/optics-ring-generator/ring"
)

var std = &Generator{Config: DefaultConfig()}

// Construct returns the validated parameters of a ring. It fails with a
// *ring.ValidationError for non-positive diameters, an outer diameter not
// above the inner one or a wall thinner than ring.MinWallThicknessMM.
func Construct(v ring.Variant, outerMM, innerMM float32) (ring.Parameters, error) {
	return ring.New(v, outerMM, innerMM)
}

// ValidateForPrinting checks p against the default printer limits.
func ValidateForPrinting(p ring.Parameters) error {
	return std.ValidateForPrinting(p)
}

// GenerateFile writes the STL file of p to dir, or the working directory
// if dir is empty, with the default configuration.
func GenerateFile(p ring.Parameters, dir string) (string, error) {
	return std.GenerateFile(p, dir)
}

// ManufacturingReport summarizes p with the default configuration.
func ManufacturingReport(p ring.Parameters) (Report, error) {
	return std.Report(p)
}
