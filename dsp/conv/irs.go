package conv

import (
	"fmt"
	"math"
)

// ImpulseResponses is a bank of equally long impulse responses stored as
// interleaved multi-channel samples. Channel i is impulse response i.
type ImpulseResponses struct {
	Samples    []float64
	Channels   int
	SampleRate float64
}

// Frames returns the length of each impulse response.
func (irs ImpulseResponses) Frames() int {
	if irs.Channels <= 0 {
		return 0
	}

	return len(irs.Samples) / irs.Channels
}

// Validate checks the shape and sample rate of the bank.
func (irs ImpulseResponses) Validate() error {
	if irs.Channels <= 0 {
		return fmt.Errorf("%w: %d channels", ErrInvalidImpulseResponses, irs.Channels)
	}

	if len(irs.Samples) == 0 || len(irs.Samples)%irs.Channels != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", ErrInvalidImpulseResponses, len(irs.Samples), irs.Channels)
	}

	if irs.SampleRate <= 0 || math.IsNaN(irs.SampleRate) || math.IsInf(irs.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidImpulseResponses, irs.SampleRate)
	}

	return nil
}

// Channel copies impulse response ch into dst, which must hold Frames()
// samples.
func (irs ImpulseResponses) Channel(dst []float64, ch int) {
	for i := range dst {
		dst[i] = irs.Samples[i*irs.Channels+ch]
	}
}
