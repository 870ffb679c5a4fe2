package codec

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-degrade/dsp/buffer"
	"github.com/cwbudde/algo-degrade/dsp/core"
	"github.com/cwbudde/algo-degrade/dsp/resample"
	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of a Pipeline.
type State int

const (
	// StateUninitialized means no buffers are allocated; output is silence.
	StateUninitialized State = iota
	// StateConfigured means buffers and converters match the host settings.
	StateConfigured
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	default:
		return "uninitialized"
	}
}

// Config describes the wrapped processor's side of the pipeline.
type Config struct {
	Name         string
	InternalRate float64
	FrameSize    int
}

func (c Config) validate() error {
	if c.InternalRate <= 0 || math.IsNaN(c.InternalRate) || math.IsInf(c.InternalRate, 0) {
		return fmt.Errorf("%w: internal rate %v", ErrInvalidConfig, c.InternalRate)
	}

	if c.FrameSize <= 0 {
		return fmt.Errorf("%w: frame size %d", ErrInvalidConfig, c.FrameSize)
	}

	return nil
}

type options struct {
	log     *logrus.Entry
	quality resample.Quality
}

// Option configures a Pipeline.
type Option func(*options)

// WithLogger sets the log entry used for diagnostics.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithQuality selects the anti-aliasing quality of both rate converters.
func WithQuality(q resample.Quality) Option {
	return func(o *options) {
		o.quality = q
	}
}

// Pipeline adapts host blocks to the frames of a Processor.
type Pipeline struct {
	proc    Processor
	cfg     Config
	log     *logrus.Entry
	quality resample.Quality

	state        State
	externalRate float64
	blockSize    int

	toInternal *resample.Converter
	toExternal *resample.Converter
	in         *buffer.Ring[float64]
	out        *buffer.Ring[float64]
	frame      []float64

	dropNext atomic.Bool
	frames   uint64
	badBlock int
}

// New creates an unconfigured pipeline around proc.
func New(proc Processor, cfg Config, opts ...Option) (*Pipeline, error) {
	if proc == nil {
		return nil, fmt.Errorf("%w: nil processor", ErrInvalidConfig)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Name == "" {
		cfg.Name = "codec"
	}

	o := options{quality: resample.QualityBalanced}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.log == nil {
		o.log = logrus.WithField("unit", cfg.Name)
	}

	return &Pipeline{
		proc:    proc,
		cfg:     cfg,
		log:     o.log,
		quality: o.quality,
	}, nil
}

// Config returns the processor-side configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// State returns the lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}

// BlockSize returns the configured host block size, or 0 when unconfigured.
func (p *Pipeline) BlockSize() int {
	return p.blockSize
}

// SampleRate returns the configured host sample rate, or 0 when unconfigured.
func (p *Pipeline) SampleRate() float64 {
	return p.externalRate
}

// Frames returns the number of frames handed to the processor since the
// last Configure.
func (p *Pipeline) Frames() uint64 {
	return p.frames
}

// Configure tears down all state and rebuilds it for the given host rate and
// block size. Invalid values are replaced by the core defaults. An error is
// returned only when the pipeline could not be built; it then stays
// uninitialized and outputs silence.
func (p *Pipeline) Configure(sampleRate float64, blockSize int) error {
	p.teardown()

	hc, err := core.Sanitize(sampleRate, blockSize)
	if err != nil {
		p.log.WithFields(logrus.Fields{
			"function":    "Configure",
			"sample_rate": sampleRate,
			"block_size":  blockSize,
			"using_rate":  hc.SampleRate,
			"using_block": hc.BlockSize,
			"error":       err.Error(),
		}).Warn("Invalid host settings, using defaults")
	}

	if err := p.build(hc); err != nil {
		p.teardown()
		p.log.WithFields(logrus.Fields{
			"function": "Configure",
			"error":    err.Error(),
		}).Error("Pipeline configuration failed")

		return err
	}

	p.log.WithFields(logrus.Fields{
		"function":      "Configure",
		"sample_rate":   hc.SampleRate,
		"block_size":    hc.BlockSize,
		"internal_rate": p.cfg.InternalRate,
		"frame_size":    p.cfg.FrameSize,
		"quality":       p.quality,
		"factor":        p.toInternal.Factor(),
	}).Info("Pipeline configured")

	return nil
}

func (p *Pipeline) build(hc core.ProcessorConfig) error {
	if r, ok := p.proc.(Resetter); ok {
		if err := r.Reset(p.cfg.InternalRate, p.cfg.FrameSize); err != nil {
			return fmt.Errorf("%w: %w", ErrInit, err)
		}
	}

	toInternal, err := resample.NewConverterForRates(hc.SampleRate, p.cfg.InternalRate, hc.BlockSize, resample.WithQuality(p.quality))
	if err != nil {
		return err
	}

	toExternal, err := resample.NewConverterForRates(p.cfg.InternalRate, hc.SampleRate, p.cfg.FrameSize, resample.WithQuality(p.quality))
	if err != nil {
		return err
	}

	// Both rings hold at least two chunks plus the largest single push.
	in, err := buffer.NewRing[float64](3*p.cfg.FrameSize+toInternal.MaxOutput(), p.cfg.FrameSize)
	if err != nil {
		return err
	}

	out, err := buffer.NewRing[float64](3*(hc.BlockSize+toExternal.MaxOutput()), hc.BlockSize)
	if err != nil {
		return err
	}

	p.toInternal = toInternal
	p.toExternal = toExternal
	p.in = in
	p.out = out
	p.frame = make([]float64, p.cfg.FrameSize)
	p.externalRate = hc.SampleRate
	p.blockSize = hc.BlockSize
	p.state = StateConfigured

	return nil
}

func (p *Pipeline) teardown() {
	p.state = StateUninitialized
	p.toInternal = nil
	p.toExternal = nil
	p.in = nil
	p.out = nil
	p.frame = nil
	p.externalRate = 0
	p.blockSize = 0
	p.frames = 0
	p.badBlock = 0
	p.dropNext.Store(false)
}

// RequestPacketLoss marks the next processed frame as lost. It may be called
// from any goroutine.
func (p *Pipeline) RequestPacketLoss() {
	p.dropNext.Store(true)
}

// ProcessBlock consumes one host block from in and writes one host block to
// out. Both must hold exactly BlockSize samples; otherwise, or when the
// pipeline is not configured, out is zero-filled.
func (p *Pipeline) ProcessBlock(out, in []float64) {
	if p.state != StateConfigured {
		clear(out)
		return
	}

	if len(in) != p.blockSize || len(out) != p.blockSize {
		p.rejectBlock(len(in), len(out))
		clear(out)

		return
	}

	resampled, err := p.toInternal.Resample(in)
	if err != nil {
		p.log.WithFields(logrus.Fields{
			"function": "ProcessBlock",
			"error":    err.Error(),
		}).Error("Input conversion failed")
	}

	p.in.Push(resampled)

	for p.in.HasChunk() {
		copy(p.frame, p.in.Pop(p.cfg.FrameSize))
		p.processFrame()

		back, err := p.toExternal.Resample(p.frame)
		if err != nil {
			p.log.WithFields(logrus.Fields{
				"function": "ProcessBlock",
				"error":    err.Error(),
			}).Error("Output conversion failed")
		}

		p.out.Push(back)
	}

	if p.out.HasChunk() {
		copy(out, p.out.Pop(p.blockSize))
		return
	}

	clear(out)
}

func (p *Pipeline) processFrame() {
	lost := p.dropNext.Swap(false)
	p.frames++

	if err := p.proc.ProcessFrame(p.frame, lost); err != nil {
		p.log.WithFields(logrus.Fields{
			"function": "processFrame",
			"frame":    p.frames,
			"lost":     lost,
			"error":    err.Error(),
		}).Error("Frame processing failed, inserting silence")
		clear(p.frame)
	}
}

// rejectBlock logs a block size mismatch once per distinct size.
func (p *Pipeline) rejectBlock(inLen, outLen int) {
	key := inLen
	if inLen == p.blockSize {
		key = -outLen
	}

	if key == p.badBlock {
		return
	}

	p.badBlock = key
	p.log.WithFields(logrus.Fields{
		"function":   "ProcessBlock",
		"in_len":     inLen,
		"out_len":    outLen,
		"block_size": p.blockSize,
	}).Warn("Block size mismatch, emitting silence")
}
