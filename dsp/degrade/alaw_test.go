package degrade

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestALawRoundTripErrorBound(t *testing.T) {
	for pcm := math.MinInt16; pcm <= math.MaxInt16; pcm += 7 {
		x := int16(pcm)
		y := aLawToLinear(linearToALaw(x))

		err := math.Abs(float64(y) - float64(x))
		bound := 16 + math.Abs(float64(x))/32

		require.LessOrEqualf(t, err, bound, "pcm %d decoded to %d", x, y)
	}
}

func TestALawKnownCodes(t *testing.T) {
	// Positive zero encodes to 0xD5 and decodes to the first step midpoint.
	assert.Equal(t, byte(0xD5), linearToALaw(0))
	assert.Equal(t, int16(8), aLawToLinear(0xD5))
	assert.Equal(t, int16(-8), aLawToLinear(0x55))

	// Full scale saturates to the last segment.
	assert.Equal(t, int16(32256), aLawToLinear(linearToALaw(math.MaxInt16)))
	assert.Equal(t, int16(-32256), aLawToLinear(linearToALaw(math.MinInt16)))
}

func TestALawMonotonic(t *testing.T) {
	prev := aLawToLinear(linearToALaw(math.MinInt16))
	for pcm := math.MinInt16 + 1; pcm <= math.MaxInt16; pcm++ {
		y := aLawToLinear(linearToALaw(int16(pcm)))
		require.GreaterOrEqualf(t, y, prev, "pcm %d", pcm)
		prev = y
	}
}

func TestFloatToPCM16Saturates(t *testing.T) {
	assert.Equal(t, int16(math.MaxInt16), floatToPCM16(2))
	assert.Equal(t, int16(-math.MaxInt16), floatToPCM16(-2))
	assert.Equal(t, int16(0), floatToPCM16(0))
	assert.InDelta(t, 0.5, pcm16ToFloat(floatToPCM16(0.5)), 1.0/math.MaxInt16)
}
