package resample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConverterValidation(t *testing.T) {
	_, err := NewConverter(0, 64)
	require.ErrorIs(t, err, ErrInvalidRatio)

	_, err = NewConverter(2, 0)
	require.ErrorIs(t, err, ErrInvalidRatio)
}

func TestNewConverterForRatesValidation(t *testing.T) {
	for _, rates := range [][2]float64{{0, 8000}, {48000, -1}, {math.NaN(), 8000}, {48000, math.Inf(1)}} {
		_, err := NewConverterForRates(rates[0], rates[1], 64)
		require.ErrorIsf(t, err, ErrInvalidRate, "%v", rates)
	}

	c, err := NewConverterForRates(48000, 8000, 64)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6, c.Factor(), 1e-15)
}

func TestConverterIdentity(t *testing.T) {
	c, err := NewConverter(1, 64)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.Factor(), 0)

	in := sine(1000, 8000, 64)
	out, err := c.Resample(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestConverterZerosStayZero(t *testing.T) {
	c, err := NewConverter(8000.0/48000.0, 1024)
	require.NoError(t, err)

	for range 4 {
		out, err := c.Resample(make([]float64, 1024))
		require.NoError(t, err)

		for i, v := range out {
			require.Zerof(t, v, "sample %d", i)
		}
	}
}

func TestConverterLengthsTrackFactor(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		block  int
	}{
		{name: "down 6", factor: 8000.0 / 48000.0, block: 1024},
		{name: "up 6", factor: 48000.0 / 8000.0, block: 160},
		{name: "up 2", factor: 2, block: 700},
		{name: "44k1 to 16k", factor: 16000.0 / 44100.0, block: 512},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewConverter(tc.factor, tc.block)
			require.NoError(t, err)

			total := 0
			blocks := 20

			for range blocks {
				out, err := c.Resample(sine(440, 48000, tc.block))
				require.NoError(t, err)
				require.LessOrEqual(t, len(out), c.MaxOutput())

				total += len(out)
			}

			want := float64(blocks*tc.block) * c.Factor()
			assert.InDelta(t, want, float64(total), 2)
		})
	}
}

func TestConverterRejectsLongInput(t *testing.T) {
	c, err := NewConverter(2, 16)
	require.NoError(t, err)

	_, err = c.Resample(make([]float64, 17))
	require.ErrorIs(t, err, ErrInputTooLong)
}

func TestConverterMatchesResampler(t *testing.T) {
	c, err := NewConverter(3.0/2.0, 1500)
	require.NoError(t, err)

	r, err := NewRational(3, 2, WithMaxBlock(1500))
	require.NoError(t, err)

	in := sine(300, 8000, 1500)
	want := process(t, r, in)

	got, err := c.Resample(in)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12)
	}
}
