package degrade

import (
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-degrade/dsp/codec"
	"github.com/cwbudde/algo-degrade/dsp/core"
	"github.com/sirupsen/logrus"
)

const (
	defaultMNRUSeed = 314159265
	mnruRate        = 8000
)

// MNRUFrameSizes lists the accepted MNRU frame sizes.
var MNRUFrameSizes = []int{80, 160}

// MNRU adds speech-correlated noise: y = x * (1 + 10^(-Q/20) * n) with n
// zero-mean unit-variance Gaussian noise. The resulting signal-to-noise
// ratio is Q dB regardless of the input level.
type MNRU struct {
	q    float64
	gain float64
	seed uint64
	rng  *rand.Rand
	log  *logrus.Entry

	lossLogged bool
}

// NewMNRUProcessor returns an MNRU processor for ratio qdB.
func NewMNRUProcessor(qdB float64, seed uint64, log *logrus.Entry) *MNRU {
	if log == nil {
		log = logrus.WithField("unit", "mnru")
	}

	m := &MNRU{
		q:    qdB,
		gain: core.DBToLinear(-qdB),
		seed: seed,
		log:  log,
	}
	m.reseed()

	return m
}

// Q returns the configured signal-to-noise ratio in dB.
func (m *MNRU) Q() float64 {
	return m.q
}

// ProcessFrame modulates noise onto frame in place. The MNRU has no packet
// model; lost frames are processed normally and the first one is logged.
func (m *MNRU) ProcessFrame(frame []float64, lost bool) error {
	if lost && !m.lossLogged {
		m.lossLogged = true
		m.log.WithFields(logrus.Fields{
			"function": "ProcessFrame",
		}).Warn("Packet loss is not supported by MNRU, frames are processed normally")
	}

	for i, x := range frame {
		frame[i] = x + m.gain*x*m.rng.NormFloat64()
	}

	return nil
}

// Reset restarts the noise sequence.
func (m *MNRU) Reset(float64, int) error {
	m.reseed()
	return nil
}

func (m *MNRU) reseed() {
	m.rng = rand.New(rand.NewPCG(m.seed, m.seed^0x9E3779B97F4A7C15))
}

// NewMNRU returns an MNRU unit at Q dB. Invalid frame sizes fall back to 80
// samples; a NaN Q falls back to 0 dB.
func NewMNRU(frameSize int, qdB float64, opts ...Option) (*codec.Pipeline, error) {
	cfg := applyOptions("mnru", opts)

	frameSize = codec.ValidateChoice(cfg.log, "frame_size", frameSize, MNRUFrameSizes, MNRUFrameSizes[0])

	if math.IsNaN(qdB) {
		cfg.log.WithFields(logrus.Fields{
			"function": "NewMNRU",
			"param":    "q_db",
		}).Warn("Invalid parameter, using default")

		qdB = 0
	}

	proc := NewMNRUProcessor(qdB, cfg.seed, cfg.log)

	p, err := codec.New(proc, codec.Config{Name: "mnru", InternalRate: mnruRate, FrameSize: frameSize}, cfg.pipelineOptions()...)
	if err != nil {
		return nil, err
	}

	cfg.log.WithFields(logrus.Fields{
		"function":   "NewMNRU",
		"frame_size": frameSize,
		"q_db":       qdB,
	}).Info("Created MNRU unit")

	return p, nil
}
