package testutil

import (
	"math"
	"testing"
)

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Fatalf("RMS(nil) = %v, want 0", got)
	}

	if got := RMS([]float64{3, -3, 3, -3}); got != 3 {
		t.Fatalf("RMS = %v, want 3", got)
	}

	// A full-period sine has RMS amplitude/sqrt(2).
	s := DeterministicSine(100, 8000, 2, 800)
	if got := RMS(s); math.Abs(got-math.Sqrt2) > 1e-12 {
		t.Fatalf("RMS(sine) = %v, want %v", got, math.Sqrt2)
	}
}

func TestPeak(t *testing.T) {
	if got := Peak([]float64{0.5, -2, 1}); got != 2 {
		t.Fatalf("Peak = %v, want 2", got)
	}

	if got := Peak(nil); got != 0 {
		t.Fatalf("Peak(nil) = %v, want 0", got)
	}
}

func TestFirstNonZero(t *testing.T) {
	if got := FirstNonZero(Impulse(8, 5)); got != 5 {
		t.Fatalf("FirstNonZero = %d, want 5", got)
	}

	if got := FirstNonZero(make([]float64, 4)); got != -1 {
		t.Fatalf("FirstNonZero(zeros) = %d, want -1", got)
	}
}
