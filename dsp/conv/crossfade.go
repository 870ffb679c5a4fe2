package conv

import "math"

// CrossfadeCurve returns a falling taper of n gains from ~1 to ~0.
//
// The squared gains follow cos²(x · 90°) sampled at the centres
// x = (i+0.5)/n, so the taper paired with its reverse is power
// complementary: curve[i]² + curve[n-1-i]² == 1 for every i.
func CrossfadeCurve(n int) []float64 {
	if n <= 0 {
		return nil
	}

	curve := make([]float64, n)
	for i := range curve {
		curve[i] = math.Cos((float64(i) + 0.5) / float64(n) * math.Pi / 2)
	}

	return curve
}
