package degrade

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-degrade/dsp/codec"
	"github.com/cwbudde/algo-degrade/dsp/core"
	"github.com/cwbudde/algo-degrade/dsp/window"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
)

// Accepted detector settings.
var (
	VADFrameSizes  = []int{80, 160, 240, 320}
	VADSampleRates = []float64{8000, 16000, 32000}
)

// Detector thresholds.
const (
	vadBandLowHz      = 300
	vadBandHighHz     = 3400
	vadMinEnergyDB    = -50
	vadFloorDB        = -100
	vadInitialNoiseDB = -60
	vadThresholdDB    = 9
	vadMinSpeechRatio = 0.6
	vadNoiseRise      = 0.05
	vadNoiseRiseSpeak = 0.002
)

// Activity describes a frame classified as speech.
type Activity struct {
	Frame       uint64
	EnergyDB    float64
	SpeechRatio float64
}

// Detector classifies frames as speech or non-speech from their level above
// a tracked noise floor and the share of spectral power inside the
// telephone speech band. Frames pass through unchanged.
type Detector struct {
	onActivity func(Activity)
	log        *logrus.Entry

	rate   float64
	nfft   int
	lo, hi int

	plan *algofft.Plan[complex128]
	win  []float64
	tmp  []float64
	buf  []complex128
	spec []complex128
	re   []float64
	im   []float64
	pow  []float64

	noiseDB float64
	frames  uint64
	active  bool
}

// NewDetector returns a detector calling onActivity for speech frames.
// Reset must be called before the first frame.
func NewDetector(onActivity func(Activity), log *logrus.Entry) *Detector {
	if log == nil {
		log = logrus.WithField("unit", "vad")
	}

	return &Detector{onActivity: onActivity, log: log}
}

// Reset sizes the analysis for frameSize samples at rate and clears the
// noise estimate.
func (d *Detector) Reset(rate float64, frameSize int) error {
	nfft := 1
	for nfft < frameSize {
		nfft <<= 1
	}

	plan, err := algofft.NewPlan64(nfft)
	if err != nil {
		return fmt.Errorf("vad: fft plan: %w", err)
	}

	half := nfft/2 + 1

	d.rate = rate
	d.nfft = nfft
	d.plan = plan
	d.win = window.Hann(frameSize, window.WithPeriodic())
	d.tmp = make([]float64, frameSize)
	d.buf = make([]complex128, nfft)
	d.spec = make([]complex128, nfft)
	d.re = make([]float64, half)
	d.im = make([]float64, half)
	d.pow = make([]float64, half)
	d.lo = max(1, int(math.Ceil(vadBandLowHz*float64(nfft)/rate)))
	d.hi = min(half-1, int(math.Floor(vadBandHighHz*float64(nfft)/rate)))
	d.noiseDB = vadInitialNoiseDB
	d.frames = 0
	d.active = false

	return nil
}

// Active reports the classification of the last frame.
func (d *Detector) Active() bool {
	return d.active
}

// NoiseDB returns the current noise floor estimate in dBFS.
func (d *Detector) NoiseDB() float64 {
	return d.noiseDB
}

// ProcessFrame analyses frame without modifying it.
func (d *Detector) ProcessFrame(frame []float64, _ bool) error {
	if d.plan == nil {
		return fmt.Errorf("%w: detector not reset", codec.ErrNotConfigured)
	}

	d.frames++

	if err := window.Apply(d.tmp, frame, d.win); err != nil {
		return fmt.Errorf("vad: frame of %d samples, want %d: %w", len(frame), len(d.tmp), err)
	}

	for i, v := range d.tmp {
		d.buf[i] = complex(v, 0)
	}

	for i := len(frame); i < d.nfft; i++ {
		d.buf[i] = 0
	}

	energyDB := core.RMSDB(frame)

	if err := d.plan.Forward(d.spec, d.buf); err != nil {
		return fmt.Errorf("vad: forward fft: %w", err)
	}

	for k := range d.re {
		d.re[k] = real(d.spec[k])
		d.im[k] = imag(d.spec[k])
	}

	vecmath.Power(d.pow, d.re, d.im)

	var ratio float64
	if total := vecmath.Sum(d.pow[1:]); total > 0 && d.hi >= d.lo {
		ratio = vecmath.Sum(d.pow[d.lo:d.hi+1]) / total
	}

	d.active = energyDB >= vadMinEnergyDB &&
		energyDB-d.noiseDB >= vadThresholdDB &&
		ratio >= vadMinSpeechRatio

	d.trackNoise(energyDB)

	if d.active && d.onActivity != nil {
		d.onActivity(Activity{Frame: d.frames, EnergyDB: energyDB, SpeechRatio: ratio})
	}

	return nil
}

// trackNoise follows minima at once and rises slowly, slower still while
// speech is present.
func (d *Detector) trackNoise(energyDB float64) {
	switch {
	case energyDB < d.noiseDB:
		d.noiseDB = max(energyDB, vadFloorDB)
	case d.active:
		d.noiseDB += (energyDB - d.noiseDB) * vadNoiseRiseSpeak
	default:
		d.noiseDB += (energyDB - d.noiseDB) * vadNoiseRise
	}
}

// VAD passes host audio through unchanged while a Detector classifies the
// signal resampled to the detector's rate.
type VAD struct {
	det     *Detector
	pipe    *codec.Pipeline
	scratch []float64
}

// NewVAD returns a voice activity detector working on frameSize samples at
// rate. Invalid values fall back to 80 samples and 8 kHz.
func NewVAD(frameSize int, rate float64, opts ...Option) (*VAD, error) {
	cfg := applyOptions("vad", opts)

	frameSize = codec.ValidateChoice(cfg.log, "frame_size", frameSize, VADFrameSizes, VADFrameSizes[0])
	rate = codec.ValidateChoice(cfg.log, "sample_rate", rate, VADSampleRates, VADSampleRates[0])

	det := NewDetector(cfg.onActivity, cfg.log)

	pipe, err := codec.New(det, codec.Config{Name: "vad", InternalRate: rate, FrameSize: frameSize}, cfg.pipelineOptions()...)
	if err != nil {
		return nil, err
	}

	cfg.log.WithFields(logrus.Fields{
		"function":    "NewVAD",
		"frame_size":  frameSize,
		"sample_rate": rate,
	}).Info("Created VAD unit")

	return &VAD{det: det, pipe: pipe}, nil
}

// Configure rebuilds the analysis path for the host settings.
func (v *VAD) Configure(sampleRate float64, blockSize int) error {
	err := v.pipe.Configure(sampleRate, blockSize)
	v.scratch = make([]float64, v.pipe.BlockSize())

	return err
}

// ProcessBlock copies in to out and feeds the detector.
func (v *VAD) ProcessBlock(out, in []float64) {
	v.pipe.ProcessBlock(v.scratch, in)
	core.CopyOrZero(out, in)
}

// Active reports whether the last analysed frame was speech.
func (v *VAD) Active() bool {
	return v.det.Active()
}

// Detector returns the underlying detector.
func (v *VAD) Detector() *Detector {
	return v.det
}
