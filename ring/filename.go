package ring

import (
	"fmt"
	"strconv"
	"strings"

	math "github.com/chewxy/math32"
)

const fileExt = ".stl"

// Filename returns the STL file name for the ring, {code}-{inner:.1f}.stl,
// i.e: "CX-25.0.stl". It depends only on variant and inner diameter.
func (p Parameters) Filename() string {
	return p.variant.Code() + "-" + formatDisplay(p.inner) + fileExt
}

// ParseFilename recovers the variant and inner diameter encoded by Filename.
// The diameter is only as precise as the file name, one decimal.
func ParseFilename(name string) (Variant, float32, error) {
	base, ok := strings.CutSuffix(name, fileExt)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q missing %s extension", errMalformedFilename, name, fileExt)
	}
	code, num, ok := strings.Cut(base, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", errMalformedFilename, name)
	}
	v, err := ParseVariant(code)
	if err != nil || v.Code() != code {
		return 0, 0, fmt.Errorf("%w: bad variant code in %q", errMalformedFilename, name)
	}
	f, err := strconv.ParseFloat(num, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errMalformedFilename, err)
	}
	inner := float32(f)
	if !(inner > 0) || math.IsInf(inner, 0) {
		return 0, 0, fmt.Errorf("%w: inner diameter %q", errMalformedFilename, num)
	}
	return v, inner, nil
}

// RoundDisplay rounds a dimension to the one decimal shown in file names.
func RoundDisplay(mm float32) float32 {
	f, _ := strconv.ParseFloat(formatDisplay(mm), 32)
	return float32(f)
}

func formatDisplay(mm float32) string {
	return strconv.FormatFloat(float64(mm), 'f', 1, 32)
}
