package conv

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-degrade/dsp/buffer"
	"github.com/cwbudde/algo-degrade/dsp/core"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

type engineConfig struct {
	log     *logrus.Entry
	initial int
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

// WithLogger sets the log entry used for diagnostics.
func WithLogger(log *logrus.Entry) EngineOption {
	return func(cfg *engineConfig) {
		if log != nil {
			cfg.log = log
		}
	}
}

// WithInitialImpulseResponse selects the impulse response active before any
// SelectImpulseResponse call. Out-of-range values are ignored.
func WithInitialImpulseResponse(index int) EngineOption {
	return func(cfg *engineConfig) {
		cfg.initial = index
	}
}

// Engine is a streaming overlap-add convolver over a bank of impulse
// responses. The impulse response length is also the frame length; each
// frame is transformed with a real FFT of length 2*frames-1, so circular
// convolution equals linear convolution.
//
// Switching impulse responses crossfades the old and the new convolution
// over exactly one frame.
type Engine struct {
	irs      ImpulseResponses
	frameLen int
	fftLen   int
	log      *logrus.Entry

	configured bool
	sampleRate float64
	blockSize  int

	fft      *fourier.FFT
	transfer [][]float64
	fall     []float64
	rise     []float64

	// Scratch. Forward and inverse transforms use separate buffers.
	padded   []float64
	fwdCoeff []complex128
	spectrum []float64
	product  []float64
	invCoeff []complex128
	seq      []float64

	// overlap holds frameLen accumulated samples; the last slot is always
	// zero on entry to a frame since the tail is frameLen-1 long.
	overlap []float64
	frame   []float64
	in      *buffer.Ring[float64]
	out     *buffer.Ring[float64]

	active    int
	requested atomic.Uint64

	rejected    uint64
	hasRejected bool
}

// NewEngine creates an unconfigured engine for irs.
func NewEngine(irs ImpulseResponses, opts ...EngineOption) (*Engine, error) {
	if err := irs.Validate(); err != nil {
		return nil, err
	}

	cfg := engineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.log == nil {
		cfg.log = logrus.WithField("unit", "convolve_dynamic")
	}

	if cfg.initial < 0 || cfg.initial >= irs.Channels {
		cfg.log.WithFields(logrus.Fields{
			"function": "NewEngine",
			"index":    cfg.initial,
			"channels": irs.Channels,
		}).Warn("Initial impulse response out of range, using 0")

		cfg.initial = 0
	}

	frameLen := irs.Frames()

	e := &Engine{
		irs:      irs,
		frameLen: frameLen,
		fftLen:   2*frameLen - 1,
		log:      cfg.log,
		active:   cfg.initial,
	}
	e.requested.Store(math.Float64bits(float64(cfg.initial)))

	return e, nil
}

// FrameLength returns the impulse response length, which is also the
// number of input samples per transform.
func (e *Engine) FrameLength() int {
	return e.frameLen
}

// TransformLength returns the FFT length, 2*FrameLength()-1.
func (e *Engine) TransformLength() int {
	return e.fftLen
}

// ImpulseResponseCount returns the number of selectable impulse responses.
func (e *Engine) ImpulseResponseCount() int {
	return e.irs.Channels
}

// ActiveImpulseResponse returns the index used for the last processed frame.
func (e *Engine) ActiveImpulseResponse() int {
	return e.active
}

// Configured reports whether Configure succeeded.
func (e *Engine) Configured() bool {
	return e.configured
}

// SelectImpulseResponse requests impulse response index for the next frame.
// Fractional values are truncated toward negative infinity. Invalid requests
// are logged and ignored. It may be called from any goroutine.
func (e *Engine) SelectImpulseResponse(index float64) {
	e.requested.Store(math.Float64bits(index))
}

// Configure rebuilds the transfer functions and buffers for the host
// settings. Invalid settings are replaced by defaults. The host rate must
// equal the impulse response rate; otherwise ErrSampleRateMismatch is
// returned and the engine outputs silence until configured successfully.
func (e *Engine) Configure(sampleRate float64, blockSize int) error {
	e.teardown()

	hc, err := core.Sanitize(sampleRate, blockSize)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"function":    "Configure",
			"sample_rate": sampleRate,
			"block_size":  blockSize,
			"using_rate":  hc.SampleRate,
			"using_block": hc.BlockSize,
			"error":       err.Error(),
		}).Warn("Invalid host settings, using defaults")
	}

	if hc.SampleRate != e.irs.SampleRate {
		err := fmt.Errorf("%w: host %v Hz, impulse responses %v Hz", ErrSampleRateMismatch, hc.SampleRate, e.irs.SampleRate)
		e.log.WithFields(logrus.Fields{
			"function": "Configure",
			"error":    err.Error(),
		}).Error("Engine configuration failed")

		return err
	}

	if err := e.build(hc); err != nil {
		e.teardown()
		e.log.WithFields(logrus.Fields{
			"function": "Configure",
			"error":    err.Error(),
		}).Error("Engine configuration failed")

		return err
	}

	e.log.WithFields(logrus.Fields{
		"function":         "Configure",
		"sample_rate":      hc.SampleRate,
		"block_size":       hc.BlockSize,
		"frame_length":     e.frameLen,
		"transform_length": e.fftLen,
		"impulse_response": e.active,
	}).Info("Engine configured")

	return nil
}

func (e *Engine) build(hc core.ProcessorConfig) error {
	l, n := e.frameLen, e.fftLen

	in, err := buffer.NewRing[float64](2*(l+hc.BlockSize), l)
	if err != nil {
		return err
	}

	out, err := buffer.NewRing[float64](2*(l+hc.BlockSize), hc.BlockSize)
	if err != nil {
		return err
	}

	e.fft = fourier.NewFFT(n)
	e.padded = make([]float64, n)
	e.fwdCoeff = make([]complex128, n/2+1)
	e.spectrum = make([]float64, n)
	e.product = make([]float64, n)
	e.invCoeff = make([]complex128, n/2+1)
	e.seq = make([]float64, n)
	e.overlap = make([]float64, l)
	e.frame = make([]float64, l)

	e.transfer = make([][]float64, e.irs.Channels)
	for ch := range e.transfer {
		e.irs.Channel(e.padded[:l], ch)
		clear(e.padded[l:])
		e.fft.Coefficients(e.fwdCoeff, e.padded)

		e.transfer[ch] = make([]float64, n)
		PackHalfComplex(e.transfer[ch], e.fwdCoeff)
	}

	e.fall = CrossfadeCurve(l)
	e.rise = make([]float64, l)
	for i := range e.rise {
		e.rise[i] = e.fall[l-1-i]
	}

	e.in = in
	e.out = out
	e.sampleRate = hc.SampleRate
	e.blockSize = hc.BlockSize
	e.configured = true

	return nil
}

func (e *Engine) teardown() {
	e.configured = false
	e.sampleRate = 0
	e.blockSize = 0
	e.fft = nil
	e.transfer = nil
	e.fall, e.rise = nil, nil
	e.padded, e.spectrum, e.product, e.seq = nil, nil, nil, nil
	e.fwdCoeff, e.invCoeff = nil, nil
	e.overlap, e.frame = nil, nil
	e.in, e.out = nil, nil
}

// ProcessBlock consumes one host block and writes one host block. Until a
// full frame has been convolved, and whenever the engine is unconfigured or
// the block lengths do not match the configured block size, out is
// zero-filled.
func (e *Engine) ProcessBlock(out, in []float64) {
	if !e.configured || len(in) != e.blockSize || len(out) != e.blockSize {
		clear(out)
		return
	}

	e.in.Push(in)

	for e.in.HasChunk() {
		copy(e.frame, e.in.Pop(e.frameLen))
		e.processFrame()
	}

	if e.out.HasChunk() {
		copy(out, e.out.Pop(e.blockSize))
		return
	}

	clear(out)
}

func (e *Engine) processFrame() {
	l := e.frameLen

	copy(e.padded, e.frame)
	clear(e.padded[l:])
	e.fft.Coefficients(e.fwdCoeff, e.padded)
	PackHalfComplex(e.spectrum, e.fwdCoeff)

	next := e.requestedIndex()

	if next == e.active {
		e.convolve(e.active)
		vecmath.AddBlockInPlace(e.overlap, e.seq[:l])
	} else {
		if e.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
			e.log.WithFields(logrus.Fields{
				"function": "processFrame",
				"from":     e.active,
				"to":       next,
			}).Debug("Crossfading impulse response")
		}

		e.convolve(e.active)
		vecmath.MulAddBlock(e.overlap, e.seq[:l], e.fall, e.overlap)

		e.convolve(next)
		vecmath.MulAddBlock(e.overlap, e.seq[:l], e.rise, e.overlap)

		e.active = next
	}

	e.out.Push(e.overlap)

	// The tail of the last convolution (the new response after a switch)
	// carries into the next frame.
	copy(e.overlap, e.seq[l:])
	e.overlap[l-1] = 0
}

// convolve multiplies the current input spectrum with impulse response ch
// and leaves the normalised time-domain result in e.seq.
func (e *Engine) convolve(ch int) {
	MulHalfComplex(e.product, e.spectrum, e.transfer[ch])
	UnpackHalfComplex(e.invCoeff, e.product)
	e.fft.Sequence(e.seq, e.invCoeff)
	f64.Scale(e.seq, e.seq, 1/float64(e.fftLen))
}

// requestedIndex resolves the pending request. Invalid requests keep the
// active impulse response and are logged once per distinct value.
func (e *Engine) requestedIndex() int {
	bits := e.requested.Load()
	v := math.Floor(math.Float64frombits(bits))

	if !math.IsNaN(v) && v >= 0 && v < float64(e.irs.Channels) {
		e.hasRejected = false
		return int(v)
	}

	if !e.hasRejected || e.rejected != bits {
		e.hasRejected = true
		e.rejected = bits
		e.log.WithFields(logrus.Fields{
			"function":  "SelectImpulseResponse",
			"requested": math.Float64frombits(bits),
			"available": e.irs.Channels,
			"active":    e.active,
		}).Warn("Requested impulse response not available, keeping active one")
	}

	return e.active
}
