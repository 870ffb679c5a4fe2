package degrade

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-degrade/dsp/codec"
	"github.com/cwbudde/algo-degrade/internal/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() (*logrus.Entry, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	return logrus.NewEntry(logger), hook
}

func TestALawCodecRoundTrip(t *testing.T) {
	c := NewALaw(PLCZero)
	frame := testutil.DeterministicSine(440, 8000, 0.8, 160)

	pkt, err := c.Encode(nil, frame)
	require.NoError(t, err)
	require.Len(t, pkt, 160)

	out := make([]float64, 160)
	require.NoError(t, c.Decode(out, pkt))

	for i := range frame {
		bound := 16.0/math.MaxInt16 + math.Abs(frame[i])/32 + 1.0/math.MaxInt16
		require.LessOrEqualf(t, math.Abs(out[i]-frame[i]), bound, "sample %d", i)
	}
}

func TestALawDecodeRejectsWrongPacketSize(t *testing.T) {
	c := NewALaw(PLCZero)
	err := c.Decode(make([]float64, 80), make([]byte, 79))
	require.ErrorIs(t, err, ErrPacketSize)
}

func TestALawConcealZero(t *testing.T) {
	c := NewALaw(PLCZero)
	require.NoError(t, c.Decode(make([]float64, 80), make([]byte, 80)))

	dst := testutil.Ones(80)
	require.NoError(t, c.Conceal(dst))
	assert.Equal(t, make([]float64, 80), dst)
}

func TestALawConcealRepeatFades(t *testing.T) {
	c := NewALaw(PLCRepeat)
	require.NoError(t, c.Reset(8000, 80))

	// Without history there is nothing to repeat.
	dst := testutil.Ones(80)
	require.NoError(t, c.Conceal(dst))
	assert.Equal(t, make([]float64, 80), dst)

	frame := testutil.DeterministicSine(500, 8000, 0.5, 80)
	pkt, err := c.Encode(nil, frame)
	require.NoError(t, err)

	good := make([]float64, 80)
	require.NoError(t, c.Decode(good, pkt))

	// First lost frame repeats the last good one at full level.
	require.NoError(t, c.Conceal(dst))
	assert.Equal(t, good, dst)

	// Following frames fade out and reach silence after 60 ms.
	prevPeak := math.Inf(1)
	for range 5 {
		require.NoError(t, c.Conceal(dst))
		peak := 0.0
		for _, v := range dst {
			peak = max(peak, math.Abs(v))
		}
		assert.Less(t, peak, prevPeak)
		prevPeak = peak
	}

	require.NoError(t, c.Conceal(dst))
	assert.Equal(t, make([]float64, 80), dst)

	// A good frame ends the loss burst.
	require.NoError(t, c.Decode(good, pkt))
	require.NoError(t, c.Conceal(dst))
	assert.Equal(t, good, dst)
}

func TestNewG711ValidatesParameters(t *testing.T) {
	log, hook := quietLogger()

	p, err := NewG711(100, PLCMode(7), WithLogger(log))
	require.NoError(t, err)
	assert.Equal(t, 80, p.Config().FrameSize)
	assert.InDelta(t, 8000.0, p.Config().InternalRate, 0)

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestG711UnitRoundTripAtNativeRate(t *testing.T) {
	log, _ := quietLogger()

	p, err := NewG711(160, PLCZero, WithLogger(log))
	require.NoError(t, err)
	require.NoError(t, p.Configure(8000, 160))

	in := testutil.DeterministicSine(700, 8000, 0.6, 160)
	out := make([]float64, 160)

	p.ProcessBlock(out, in)

	for i := range in {
		bound := 17.0/math.MaxInt16 + math.Abs(in[i])/32
		require.LessOrEqualf(t, math.Abs(out[i]-in[i]), bound, "sample %d", i)
	}
}

func TestG711PacketLossZeroInsertion(t *testing.T) {
	log, _ := quietLogger()

	p, err := NewG711(80, PLCZero, WithLogger(log))
	require.NoError(t, err)
	require.NoError(t, p.Configure(8000, 80))

	in := testutil.DeterministicSine(700, 8000, 0.6, 80)
	out := make([]float64, 80)

	p.ProcessBlock(out, in)
	assert.NotEqual(t, make([]float64, 80), out)

	p.RequestPacketLoss()
	p.ProcessBlock(out, in)
	assert.Equal(t, make([]float64, 80), out)

	p.ProcessBlock(out, in)
	assert.NotEqual(t, make([]float64, 80), out)
}

var _ codec.Codec = (*ALaw)(nil)
var _ codec.Resetter = (*ALaw)(nil)
