package testutil

import (
	"testing"

	"github.com/sirupsen/logrus"
)

type doubler struct{ calls int }

func (d *doubler) ProcessBlock(out, in []float64) {
	d.calls++
	for i := range out {
		out[i] = 2 * in[i]
	}
}

func TestStream(t *testing.T) {
	d := &doubler{}
	y := Stream(d, []float64{1, 2, 3, 4, 5}, 2)

	if d.calls != 2 {
		t.Fatalf("calls = %d, want 2", d.calls)
	}

	RequireSliceNearlyEqual(t, y, []float64{2, 4, 6, 8}, 0)
}

func TestNullLogger(t *testing.T) {
	log, hook := NullLogger()
	log.Warn("a")
	log.Info("b")
	log.Warn("c")

	if got := CountLevel(hook, logrus.WarnLevel); got != 2 {
		t.Fatalf("warnings = %d, want 2", got)
	}
}
