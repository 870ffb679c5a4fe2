package degrade

import (
	"github.com/cwbudde/algo-degrade/dsp/codec"
	"github.com/sirupsen/logrus"
)

// Passthrough leaves frames untouched. Wrapped in a pipeline it only band
// limits the signal to the internal rate and adds the pipeline latency.
type Passthrough struct{}

// ProcessFrame does nothing.
func (Passthrough) ProcessFrame([]float64, bool) error {
	return nil
}

// NewPassthrough returns a passthrough unit. Non-positive arguments fall
// back to 160 samples at 8 kHz.
func NewPassthrough(frameSize int, internalRate float64, opts ...Option) (*codec.Pipeline, error) {
	cfg := applyOptions("passthrough", opts)

	if frameSize <= 0 || internalRate <= 0 {
		cfg.log.WithFields(logrus.Fields{
			"function":      "NewPassthrough",
			"frame_size":    frameSize,
			"internal_rate": internalRate,
		}).Warn("Invalid parameter, using defaults")

		frameSize, internalRate = 160, 8000
	}

	return codec.New(Passthrough{}, codec.Config{
		Name:         "passthrough",
		InternalRate: internalRate,
		FrameSize:    frameSize,
	}, cfg.pipelineOptions()...)
}
