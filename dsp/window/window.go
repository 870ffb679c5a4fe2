package window

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

type config struct {
	periodic bool
}

// Option configures window generation.
type Option func(*config)

// WithPeriodic selects the periodic form used for FFT framing instead of the
// symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Hann returns an n-point Hann window. The symmetric form is zero at both
// ends; the periodic form drops the final zero so that frames overlap-add
// to a constant.
func Hann(n int, opts ...Option) []float64 {
	if n <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if n == 1 {
		return []float64{1}
	}

	period := float64(n - 1)
	if cfg.periodic {
		period = float64(n)
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/period)
	}

	return out
}

// Apply writes samples weighted by coeffs into dst. All three must have the
// same length.
func Apply(dst, samples, coeffs []float64) error {
	if len(samples) != len(coeffs) || len(dst) != len(coeffs) {
		return ErrMismatchedLength
	}

	vecmath.MulBlock(dst, samples, coeffs)

	return nil
}
