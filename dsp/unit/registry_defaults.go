package unit

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-degrade/dsp/conv"
	"github.com/cwbudde/algo-degrade/dsp/degrade"
	"github.com/cwbudde/algo-degrade/dsp/delay"
	"github.com/cwbudde/algo-degrade/dsp/resample"
	"github.com/sirupsen/logrus"
)

// ErrNoIRProvider is returned when a convolution unit is created without an
// impulse response provider.
var ErrNoIRProvider = errors.New("unit: no impulse response provider")

// Default parameter values of the built-in units.
const (
	DefaultMNRUQ = 20.0
)

type registryConfig struct {
	irProvider IRProvider
}

// RegistryOption configures the default registry.
type RegistryOption func(*registryConfig)

// WithIRProvider sets the impulse response provider for convolve_dynamic.
func WithIRProvider(p IRProvider) RegistryOption {
	return func(c *registryConfig) { c.irProvider = p }
}

// DefaultRegistry returns a Registry pre-populated with all built-in units.
func DefaultRegistry(opts ...RegistryOption) *Registry {
	cfg := &registryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := NewRegistry()

	r.MustRegister("passthrough", func(ctx Context, p Params) (Unit, error) {
		return degrade.NewPassthrough(
			p.GetInt("frame_size", 160),
			p.GetNum("internal_rate", 8000),
			degradeOptions(ctx, p)...,
		)
	})
	r.MustRegister("g711", func(ctx Context, p Params) (Unit, error) {
		return degrade.NewG711(
			p.GetInt("frame_size", 80),
			degrade.PLCMode(p.GetInt("plc", int(degrade.PLCZero))),
			degradeOptions(ctx, p)...,
		)
	})
	r.MustRegister("mnru", func(ctx Context, p Params) (Unit, error) {
		opts := degradeOptions(ctx, p)
		if seed := p.GetNum("seed", -1); seed >= 0 {
			opts = append(opts, degrade.WithSeed(uint64(seed)))
		}

		return degrade.NewMNRU(p.GetInt("frame_size", 80), p.GetNum("q", DefaultMNRUQ), opts...)
	})
	r.MustRegister("vad", func(ctx Context, p Params) (Unit, error) {
		log := ctx.logger(p)
		opts := append(degradeOptions(ctx, p), degrade.WithActivityHandler(func(a degrade.Activity) {
			log.WithFields(logrus.Fields{
				"frame":        a.Frame,
				"energy_db":    a.EnergyDB,
				"speech_ratio": a.SpeechRatio,
			}).Debug("Voice activity")
		}))

		return degrade.NewVAD(p.GetInt("frame_size", 160), p.GetNum("sample_rate", 8000), opts...)
	})
	r.MustRegister("delay", func(ctx Context, p Params) (Unit, error) {
		return delay.New(
			p.GetNum("delay_ms", 0),
			delay.WithLogger(ctx.logger(p)),
			delay.WithCapacity(p.GetInt("capacity", delay.DefaultCapacity)),
		), nil
	})
	r.MustRegister("convolve_dynamic", func(ctx Context, p Params) (Unit, error) {
		if cfg.irProvider == nil {
			return nil, ErrNoIRProvider
		}

		name := p.GetStr("ir", "")

		irs, err := cfg.irProvider.ImpulseResponses(name)
		if err != nil {
			return nil, fmt.Errorf("load impulse responses %q: %w", name, err)
		}

		return conv.NewEngine(irs,
			conv.WithLogger(ctx.logger(p)),
			conv.WithInitialImpulseResponse(p.GetInt("initial", 0)),
		)
	})

	return r
}

func degradeOptions(ctx Context, p Params) []degrade.Option {
	return []degrade.Option{
		degrade.WithLogger(ctx.logger(p)),
		degrade.WithQuality(parseQuality(p.GetStr("quality", ""))),
	}
}

func parseQuality(s string) resample.Quality {
	switch s {
	case "fast":
		return resample.QualityFast
	case "best":
		return resample.QualityBest
	default:
		return resample.QualityBalanced
	}
}
