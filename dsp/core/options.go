package core

import (
	"errors"
	"fmt"
	"math"
)

// Default host settings. The block size matches the small fixed blocks of a
// real-time audio host rather than an offline batch size.
const (
	DefaultSampleRate = 48000
	DefaultBlockSize  = 64
)

// ErrInvalidConfig indicates a non-positive or non-finite rate or block size.
var ErrInvalidConfig = errors.New("core: invalid processor config")

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns defaults for streaming use.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		BlockSize:  DefaultBlockSize,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if validRate(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Validate reports whether both fields are usable.
func (c ProcessorConfig) Validate() error {
	if !validRate(c.SampleRate) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, c.SampleRate)
	}

	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, c.BlockSize)
	}

	return nil
}

// Sanitize returns a config where every invalid field has been replaced by
// its default, together with the validation error of the supplied values
// (nil when nothing was replaced).
func Sanitize(sampleRate float64, blockSize int) (ProcessorConfig, error) {
	in := ProcessorConfig{SampleRate: sampleRate, BlockSize: blockSize}
	err := in.Validate()

	return ApplyProcessorOptions(WithSampleRate(sampleRate), WithBlockSize(blockSize)), err
}

func validRate(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
