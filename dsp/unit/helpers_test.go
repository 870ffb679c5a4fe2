package unit

import (
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// stubUnit records calls and applies a fixed gain.
type stubUnit struct {
	gain         float64
	configureErr error
	configured   int
	processed    int
	losses       int
	selected     []float64
	delays       []float64
}

func (s *stubUnit) Configure(_ float64, _ int) error {
	s.configured++
	return s.configureErr
}

func (s *stubUnit) ProcessBlock(out, in []float64) {
	s.processed++
	for i := range out {
		out[i] = in[i] * s.gain
	}
}

func (s *stubUnit) RequestPacketLoss() { s.losses++ }
func (s *stubUnit) SelectImpulseResponse(index float64) { s.selected = append(s.selected, index) }

func (s *stubUnit) SetDelay(ms float64) error {
	s.delays = append(s.delays, ms)
	return nil
}

// plainUnit supports no optional control.
type plainUnit struct{}

func (plainUnit) Configure(float64, int) error   { return nil }
func (plainUnit) ProcessBlock(out, in []float64) { copy(out, in) }

func stubFactory(gain float64) Factory {
	return func(_ Context, p Params) (Unit, error) {
		return &stubUnit{gain: p.GetNum("gain", gain)}, nil
	}
}

func quietContext() (Context, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	return Context{Log: logrus.NewEntry(logger)}, hook
}
