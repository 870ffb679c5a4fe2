package core

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// DBToLinear converts a level in dB to an amplitude factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB returns the level of amplitude a in dB. Zero maps to -Inf; the
// sign of a is ignored.
func LinearToDB(a float64) float64 {
	return 20 * math.Log10(math.Abs(a))
}

// RMSDB returns the root-mean-square level of x in dB, or -Inf for silence
// and empty input.
func RMSDB(x []float64) float64 {
	if len(x) == 0 {
		return math.Inf(-1)
	}

	return LinearToDB(math.Sqrt(vecmath.DotProduct(x, x) / float64(len(x))))
}
