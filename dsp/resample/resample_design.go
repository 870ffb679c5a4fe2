package resample

import (
	"math"
	"slices"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// maxDenominator bounds the fraction used to approximate a conversion factor.
const maxDenominator = 4096

// filterProfile holds the anti-aliasing filter parameters of a quality mode.
type filterProfile struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

func (q Quality) profile() filterProfile {
	switch q {
	case QualityFast:
		return filterProfile{tapsPerPhase: 16, cutoffScale: 0.88, kaiserBeta: 5}
	case QualityBest:
		return filterProfile{tapsPerPhase: 64, cutoffScale: 0.96, kaiserBeta: 9}
	default:
		return filterProfile{tapsPerPhase: 32, cutoffScale: 0.92, kaiserBeta: 7.5}
	}
}

// designPolyphase builds the lowpass for conversion by up/down and splits it
// into up branches, each time-reversed for dot products against history.
//
// The cutoff sits at cutoffScale times the lower of the two Nyquist
// frequencies. The prototype spans tapsPerPhase samples at the slower rate,
// so heavy decimation (48 kHz to 8 kHz) gets a proportionally longer filter
// and keeps the same transition band relative to the cutoff.
func designPolyphase(up, down int, p filterProfile) [][]float64 {
	span := max(up, down)
	nTaps := p.tapsPerPhase * span
	fc := p.cutoffScale / (2 * float64(span))

	proto := make([]float64, nTaps)
	center := float64(nTaps-1) / 2

	for n := range proto {
		t := float64(n) - center
		proto[n] = 2 * fc * sinc(2*fc*t) * kaiser(n, nTaps, p.kaiserBeta)
	}

	// Each branch then has unity gain at DC on average.
	vecmath.ScaleBlockInPlace(proto, float64(up)/vecmath.Sum(proto))

	phases := make([][]float64, up)
	for ph := range phases {
		branch := make([]float64, 0, (nTaps-ph+up-1)/up)
		for i := ph; i < nTaps; i += up {
			branch = append(branch, proto[i])
		}

		slices.Reverse(branch)
		phases[ph] = branch
	}

	return phases
}

// approximateRatio returns the reduced fraction closest to v with a
// denominator of at most maxDenominator, from the continued fraction of v.
func approximateRatio(v float64) (num, den int) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	hPrev, kPrev := 1.0, 0.0
	h, k := math.Floor(v), 1.0

	for x := v; ; {
		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}

		x = 1 / frac
		a := math.Floor(x)

		kNext := a*k + kPrev
		if kNext > maxDenominator {
			break
		}

		h, hPrev = a*h+hPrev, h
		k, kPrev = kNext, k
	}

	num, den = int(math.Round(h)), int(math.Round(k))
	if num <= 0 || den <= 0 {
		return 1, 1
	}

	g := gcd(num, den)

	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return max(a, 1)
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// kaiser evaluates sample i of an n-point Kaiser window.
func kaiser(i, n int, beta float64) float64 {
	if n == 1 {
		return 1
	}

	r := 2*float64(i)/float64(n-1) - 1

	return besselI0(beta*math.Sqrt(max(0, 1-r*r))) / besselI0(beta)
}

// besselI0 is the zeroth-order modified Bessel function of the first kind,
// summed as a power series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	q := x * x / 4

	for k := 1; k < 64 && term > 1e-16*sum; k++ {
		term *= q / float64(k*k)
		sum += term
	}

	return sum
}
