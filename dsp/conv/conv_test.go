package conv

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-degrade/internal/testutil"
	"gonum.org/v1/gonum/dsp/fourier"
)

func TestDirect(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected []float64
	}{
		{
			name:     "simple 3x3",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 1, 1},
			expected: []float64{1, 3, 6, 5, 3},
		},
		{
			name:     "impulse",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{1},
			expected: []float64{1, 2, 3, 4, 5},
		},
		{
			name:     "delayed impulse",
			a:        []float64{1, 2, 3, 4, 5},
			b:        []float64{0, 0, 1},
			expected: []float64{0, 0, 1, 2, 3, 4, 5},
		},
		{
			name:     "symmetric",
			a:        []float64{1, 2, 1},
			b:        []float64{1, 2, 1},
			expected: []float64{1, 4, 6, 4, 1},
		},
		{
			name:     "long kernel",
			a:        []float64{1, -1},
			b:        []float64{1, 2, 3, 4, 5, 6},
			expected: []float64{1, 1, 1, 1, 1, 1, -6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Direct(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(result) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, expected %d", len(result), len(tt.expected))
			}

			for i := range result {
				if math.Abs(result[i]-tt.expected[i]) > 1e-10 {
					t.Errorf("result[%d] = %v, expected %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestDirectErrors(t *testing.T) {
	_, err := Direct([]float64{}, []float64{1, 2})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}

	_, err = Direct([]float64{1, 2}, []float64{})
	if !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
}

func TestHalfComplexRoundTrip(t *testing.T) {
	for _, n := range []int{2, 3, 7, 8, 63} {
		seq := testutil.DeterministicNoise(int64(n), 1, n)
		fft := fourier.NewFFT(n)
		coeff := fft.Coefficients(nil, seq)

		hc := make([]float64, n)
		PackHalfComplex(hc, coeff)

		back := make([]complex128, n/2+1)
		UnpackHalfComplex(back, hc)

		for k := range coeff {
			if cmplx.Abs(back[k]-coeff[k]) > 1e-12 {
				t.Fatalf("n=%d bin %d = %v, want %v", n, k, back[k], coeff[k])
			}
		}
	}
}

func TestMulHalfComplexMatchesComplexProduct(t *testing.T) {
	for _, n := range []int{5, 16, 31} {
		fft := fourier.NewFFT(n)
		ca := fft.Coefficients(nil, testutil.DeterministicNoise(1, 1, n))
		cb := fft.Coefficients(nil, testutil.DeterministicNoise(2, 1, n))

		a := make([]float64, n)
		b := make([]float64, n)
		PackHalfComplex(a, ca)
		PackHalfComplex(b, cb)

		prod := make([]float64, n)
		MulHalfComplex(prod, a, b)

		got := make([]complex128, n/2+1)
		UnpackHalfComplex(got, prod)

		for k := range got {
			want := ca[k] * cb[k]
			if cmplx.Abs(got[k]-want) > 1e-9 {
				t.Fatalf("n=%d bin %d = %v, want %v", n, k, got[k], want)
			}
		}
	}
}

func TestCrossfadeCurvePowerComplementary(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64, 1000} {
		curve := CrossfadeCurve(n)
		if len(curve) != n {
			t.Fatalf("len = %d, want %d", len(curve), n)
		}

		for i := range n {
			sum := curve[i]*curve[i] + curve[n-1-i]*curve[n-1-i]
			if math.Abs(sum-1) > 1e-12 {
				t.Fatalf("n=%d i=%d: power sum %v", n, i, sum)
			}

			if i > 0 && curve[i] > curve[i-1] {
				t.Fatalf("n=%d: curve rises at %d", n, i)
			}
		}
	}

	if CrossfadeCurve(0) != nil {
		t.Fatal("expected nil curve for n=0")
	}
}

func TestImpulseResponsesValidate(t *testing.T) {
	tests := []struct {
		name string
		irs  ImpulseResponses
		ok   bool
	}{
		{"valid", ImpulseResponses{Samples: make([]float64, 8), Channels: 2, SampleRate: 8000}, true},
		{"no channels", ImpulseResponses{Samples: make([]float64, 8), SampleRate: 8000}, false},
		{"ragged", ImpulseResponses{Samples: make([]float64, 7), Channels: 2, SampleRate: 8000}, false},
		{"empty", ImpulseResponses{Channels: 1, SampleRate: 8000}, false},
		{"no rate", ImpulseResponses{Samples: make([]float64, 8), Channels: 1}, false},
	}

	for _, tc := range tests {
		err := tc.irs.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidImpulseResponses) {
			t.Fatalf("%s: err = %v, want ErrInvalidImpulseResponses", tc.name, err)
		}
	}
}

func TestImpulseResponsesChannel(t *testing.T) {
	irs := ImpulseResponses{Samples: []float64{1, 10, 2, 20, 3, 30}, Channels: 2, SampleRate: 8000}
	if irs.Frames() != 3 {
		t.Fatalf("Frames() = %d, want 3", irs.Frames())
	}

	dst := make([]float64, 3)
	irs.Channel(dst, 1)

	for i, want := range []float64{10, 20, 30} {
		if dst[i] != want {
			t.Fatalf("channel 1 = %v", dst)
		}
	}
}
