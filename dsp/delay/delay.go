package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-degrade/dsp/buffer"
	"github.com/cwbudde/algo-degrade/dsp/core"
	"github.com/sirupsen/logrus"
)

// DefaultCapacity is the default ring capacity in samples. The longest
// accepted delay is a little under half of it.
const DefaultCapacity = 1 << 19

var (
	// ErrInvalidDelay indicates a negative or non-finite delay.
	ErrInvalidDelay = errors.New("delay: invalid delay")
	// ErrDelayTooLong indicates a delay that does not fit the ring capacity.
	ErrDelayTooLong = errors.New("delay: delay exceeds capacity")
)

type options struct {
	log      *logrus.Entry
	capacity int
}

// Option configures a Unit.
type Option func(*options)

// WithLogger sets the log entry used for diagnostics.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithCapacity sets the capacity of both internal rings in samples.
// Non-positive values keep DefaultCapacity.
func WithCapacity(samples int) Option {
	return func(o *options) {
		if samples > 0 {
			o.capacity = samples
		}
	}
}

// Unit delays its input by a configurable number of milliseconds.
type Unit struct {
	log      *logrus.Entry
	capacity int

	delayMs   float64
	rate      float64
	blockSize int

	in  *buffer.Ring[float64]
	out *buffer.Ring[float64]
}

// New returns an unconfigured delay unit. A negative or non-finite initial
// delay is logged and replaced by 0.
func New(delayMs float64, opts ...Option) *Unit {
	o := options{capacity: DefaultCapacity}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.log == nil {
		o.log = logrus.WithField("unit", "delay")
	}

	if delayMs < 0 || math.IsNaN(delayMs) || math.IsInf(delayMs, 0) {
		o.log.WithFields(logrus.Fields{
			"function": "New",
			"delay_ms": delayMs,
		}).Warn("Initial delay must be a finite value >= 0, using 0 ms")

		delayMs = 0
	}

	return &Unit{log: o.log, capacity: o.capacity, delayMs: delayMs}
}

// Delay returns the active delay in milliseconds.
func (u *Unit) Delay() float64 {
	return u.delayMs
}

// DelaySamples returns the effective delay in samples, rounded up to a whole
// number of host blocks, or 0 when unconfigured.
func (u *Unit) DelaySamples() int {
	return u.quantise(u.delayMs)
}

// Configured reports whether Configure succeeded.
func (u *Unit) Configured() bool {
	return u.in != nil
}

// quantise converts ms to samples and rounds up to a multiple of the block
// size, so that the output ring drains exactly as fast as it is refilled.
func (u *Unit) quantise(ms float64) int {
	if u.in == nil {
		return 0
	}

	n := int(ms * u.rate / 1000)

	return (n + u.blockSize - 1) / u.blockSize * u.blockSize
}

// Configure allocates both rings for the host settings. Invalid values are
// replaced by the core defaults. If the current delay does not fit the
// capacity, Configure fails and the unit outputs silence until a shorter
// delay is set and Configure is called again.
func (u *Unit) Configure(sampleRate float64, blockSize int) error {
	u.in = nil
	u.out = nil
	u.rate = 0
	u.blockSize = 0

	hc, err := core.Sanitize(sampleRate, blockSize)
	if err != nil {
		u.log.WithFields(logrus.Fields{
			"function":    "Configure",
			"sample_rate": sampleRate,
			"block_size":  blockSize,
			"using_rate":  hc.SampleRate,
			"using_block": hc.BlockSize,
			"error":       err.Error(),
		}).Warn("Invalid host settings, using defaults")
	}

	if err := u.build(hc); err != nil {
		u.in = nil
		u.out = nil
		u.rate = 0
		u.blockSize = 0
		u.log.WithFields(logrus.Fields{
			"function": "Configure",
			"delay_ms": u.delayMs,
			"capacity": u.capacity,
			"error":    err.Error(),
		}).Error("Delay does not fit, unit disabled")

		return err
	}

	u.log.WithFields(logrus.Fields{
		"function":    "Configure",
		"sample_rate": hc.SampleRate,
		"block_size":  hc.BlockSize,
		"delay_ms":    u.delayMs,
	}).Info("Delay configured")

	return nil
}

func (u *Unit) build(hc core.ProcessorConfig) error {
	if u.capacity < 2*hc.BlockSize {
		return fmt.Errorf("%w: capacity %d below two blocks of %d", ErrDelayTooLong, u.capacity, hc.BlockSize)
	}

	in, err := buffer.NewRing[float64](u.capacity, hc.BlockSize)
	if err != nil {
		return err
	}

	out, err := buffer.NewRing[float64](u.capacity, hc.BlockSize)
	if err != nil {
		return err
	}

	u.in = in
	u.out = out
	u.rate = hc.SampleRate
	u.blockSize = hc.BlockSize

	return u.apply(u.delayMs)
}

// SetDelay changes the delay. A rejected value leaves the previous delay
// active. Before Configure only the sign is checked. SetDelay must not run
// concurrently with ProcessBlock.
func (u *Unit) SetDelay(ms float64) error {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return fmt.Errorf("%w: %v ms", ErrInvalidDelay, ms)
	}

	if ms == u.delayMs {
		return nil
	}

	if u.in != nil {
		if err := u.apply(ms); err != nil {
			u.log.WithFields(logrus.Fields{
				"function":  "SetDelay",
				"delay_ms":  ms,
				"active_ms": u.delayMs,
			}).Error("Cannot delay that long, increase the capacity")

			return err
		}
	}

	u.delayMs = ms
	u.log.WithFields(logrus.Fields{
		"function": "SetDelay",
		"delay_ms": ms,
	}).Info("Delay changed")

	return nil
}

func (u *Unit) apply(ms float64) error {
	chunk := u.quantise(ms) + u.blockSize
	if err := u.in.SetChunkSize(chunk); err != nil {
		return fmt.Errorf("%w: %v ms needs %d of %d samples", ErrDelayTooLong, ms, chunk, u.capacity)
	}

	return nil
}

// ProcessBlock writes the delayed signal to out. Until enough input has
// accumulated, or when unconfigured, out is zero-filled.
func (u *Unit) ProcessBlock(out, in []float64) {
	if u.in == nil || len(in) != u.blockSize || len(out) != u.blockSize {
		clear(out)
		return
	}

	u.in.Push(in)

	for u.in.HasChunk() {
		u.out.Push(u.in.Pop(u.in.ChunkSize()))
	}

	if u.out.HasChunk() {
		copy(out, u.out.Pop(u.blockSize))
		return
	}

	clear(out)
}
