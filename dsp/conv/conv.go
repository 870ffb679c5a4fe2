package conv

import (
	"errors"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Errors returned by this package.
var (
	ErrEmptyInput              = errors.New("conv: empty input")
	ErrEmptyKernel             = errors.New("conv: empty kernel")
	ErrInvalidImpulseResponses = errors.New("conv: invalid impulse responses")
	ErrSampleRateMismatch      = errors.New("conv: impulse response sample rate differs from host rate")
)

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
//
// This is an O(N*M) reference; the Engine is the real-time path.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	scaled := make([]float64, len(b))

	for i, x := range a {
		vecmath.ScaleBlock(scaled, b, x)
		vecmath.AddBlockInPlace(result[i:i+len(b)], scaled)
	}

	return result, nil
}
