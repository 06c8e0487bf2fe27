package ring

import (
	"errors"
	"fmt"
)

// Kinds of parameter validation failure. Match them with errors.Is.
var (
	ErrNonPositiveDimension     = errors.New("diameters must be finite and strictly positive")
	ErrOuterNotGreaterThanInner = errors.New("outer diameter must be greater than inner diameter")
	ErrWallTooThin              = errors.New("wall thickness below minimum")
	ErrUnknownVariant           = errors.New("unknown ring variant")
	errMalformedFilename        = errors.New("malformed ring file name")
)

// ValidationError is returned by New when the requested ring can not exist.
// It is always recoverable by asking for different dimensions.
type ValidationError struct {
	// Kind is one of the Err* sentinel errors of this package.
	Kind error
	// Actual is the offending value in millimetres.
	Actual float32
	// Minimum is the bound Actual violated, where applicable.
	Minimum float32
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ErrWallTooThin:
		return fmt.Sprintf("%s: %.2fmm < %.2fmm", e.Kind, e.Actual, e.Minimum)
	case ErrOuterNotGreaterThanInner:
		return fmt.Sprintf("%s (outer-inner = %gmm)", e.Kind, e.Actual)
	default:
		return fmt.Sprintf("%s: got %gmm", e.Kind, e.Actual)
	}
}

func (e *ValidationError) Unwrap() error { return e.Kind }
