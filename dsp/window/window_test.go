package window

import (
	"errors"
	"math"
	"testing"
)

func TestHannSymmetric(t *testing.T) {
	w := Hann(65)
	if w[0] != 0 || math.Abs(w[64]) > 1e-12 {
		t.Fatalf("ends = %v, %v, want 0", w[0], w[64])
	}
	if math.Abs(w[32]-1) > 1e-12 {
		t.Fatalf("w[mid] = %v, want 1", w[32])
	}
	for i := range 32 {
		if math.Abs(w[i]-w[64-i]) > 1e-12 {
			t.Fatalf("not symmetric at %d", i)
		}
	}
}

func TestHannPeriodic(t *testing.T) {
	w := Hann(8, WithPeriodic())
	if w[0] != 0 || math.Abs(w[4]-1) > 1e-12 {
		t.Fatalf("periodic hann = %v", w)
	}

	// Half-overlapped periodic frames sum to one.
	for i := range 4 {
		if s := w[i] + w[i+4]; math.Abs(s-1) > 1e-12 {
			t.Fatalf("w[%d]+w[%d] = %v, want 1", i, i+4, s)
		}
	}
}

func TestHannDegenerate(t *testing.T) {
	if Hann(0) != nil {
		t.Fatal("expected nil for zero length")
	}
	if w := Hann(1); len(w) != 1 || w[0] != 1 {
		t.Fatalf("Hann(1) = %v, want [1]", w)
	}
}

func TestApply(t *testing.T) {
	s := []float64{1, 2, 3}
	dst := make([]float64, 3)
	if err := Apply(dst, s, []float64{0.5, 0.5, 2}); err != nil {
		t.Fatal(err)
	}
	if dst[0] != 0.5 || dst[1] != 1 || dst[2] != 6 {
		t.Fatalf("got %v", dst)
	}
	if s[0] != 1 || s[1] != 2 || s[2] != 3 {
		t.Fatalf("samples modified: %v", s)
	}
	if err := Apply(dst, s, []float64{1}); !errors.Is(err, ErrMismatchedLength) {
		t.Fatalf("err = %v", err)
	}
	if err := Apply(dst[:2], s, []float64{1, 1, 1}); !errors.Is(err, ErrMismatchedLength) {
		t.Fatalf("short dst: err = %v", err)
	}
}
