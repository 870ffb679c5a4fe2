package degrade

import (
	"github.com/cwbudde/algo-degrade/dsp/codec"
	"github.com/cwbudde/algo-degrade/dsp/resample"
	"github.com/sirupsen/logrus"
)

type config struct {
	log        *logrus.Entry
	quality    resample.Quality
	onActivity func(Activity)
	seed       uint64
}

// Option configures a degradation unit.
type Option func(*config)

// WithLogger sets the log entry used for diagnostics.
func WithLogger(log *logrus.Entry) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithQuality selects the quality of the rate converters around the unit.
func WithQuality(q resample.Quality) Option {
	return func(c *config) {
		c.quality = q
	}
}

// WithActivityHandler sets the callback invoked for every frame the voice
// activity detector classifies as speech. It runs on the audio path and
// must not block.
func WithActivityHandler(fn func(Activity)) Option {
	return func(c *config) {
		c.onActivity = fn
	}
}

// WithSeed sets the noise generator seed of the MNRU.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

func applyOptions(name string, opts []Option) config {
	cfg := config{
		quality: resample.QualityBalanced,
		seed:    defaultMNRUSeed,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.log == nil {
		cfg.log = logrus.WithField("unit", name)
	}

	return cfg
}

func (c config) pipelineOptions() []codec.Option {
	return []codec.Option{codec.WithLogger(c.log), codec.WithQuality(c.quality)}
}
