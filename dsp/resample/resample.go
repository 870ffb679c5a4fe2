package resample

import (
	"errors"
	"fmt"

	"github.com/tphakala/simd/f64"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio or conversion factor.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
	// ErrShortBuffer indicates a destination too small for the produced samples.
	ErrShortBuffer = errors.New("resample: destination buffer too small")
)

// Quality controls the anti-aliasing filter.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBest:
		return "best"
	default:
		return "balanced"
	}
}

type config struct {
	quality  Quality
	maxBlock int
}

// Option configures the resampler.
type Option func(*config)

// WithQuality selects the anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithMaxBlock sets the largest input block ProcessTo handles without
// allocating.
func WithMaxBlock(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxBlock = n
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{quality: QualityBalanced, maxBlock: SubBlockSize}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Resampler performs rational sample-rate conversion using a polyphase FIR.
//
// State is kept between calls so consecutive blocks form one continuous
// stream. The filter history is primed with zeros, so the first output
// samples carry the filter's group delay.
type Resampler struct {
	up   int
	down int

	// phases holds each polyphase branch time-reversed; branch 0 is the
	// longest.
	phases [][]float64

	phase      int
	inputIndex int
	totalIn    int

	// work is history (len(phases[0])-1 samples) followed by the current input.
	work []float64
}

// NewRational creates a resampler for ratio up/down.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}

	g := gcd(up, down)
	up /= g
	down /= g

	cfg := newConfig(opts)
	phases := designPolyphase(up, down, cfg.quality.profile())
	histLen := len(phases[0]) - 1

	return &Resampler{
		up:     up,
		down:   down,
		phases: phases,
		work:   make([]float64, histLen, histLen+cfg.maxBlock),
	}, nil
}

// Reset clears internal filter state.
func (r *Resampler) Reset() {
	r.phase = 0
	r.inputIndex = 0
	r.totalIn = 0

	r.work = r.work[:len(r.phases[0])-1]
	clear(r.work)
}

// ProcessTo converts input into dst and returns the number of samples written.
//
// dst must hold at least PredictOutputLen(len(input)) samples, otherwise
// ErrShortBuffer is returned and no input is consumed. ProcessTo does not
// allocate unless input is longer than the block size the resampler was
// created for.
func (r *Resampler) ProcessTo(dst, input []float64) (int, error) {
	if len(input) == 0 {
		return 0, nil
	}

	need := r.PredictOutputLen(len(input))
	if len(dst) < need {
		return 0, fmt.Errorf("%w: need %d, have %d", ErrShortBuffer, need, len(dst))
	}

	histLen := len(r.work)
	r.work = append(r.work, input...)

	// work[0] corresponds to absolute input index base.
	base := r.totalIn - histLen
	lastAvail := r.totalIn + len(input) - 1

	n := 0

	for r.inputIndex <= lastAvail {
		taps := r.phases[r.phase]
		w := r.inputIndex - base

		dst[n] = f64.DotProduct(taps, r.work[w-len(taps)+1:w+1])
		n++

		r.phase += r.down
		r.inputIndex += r.phase / r.up
		r.phase %= r.up
	}

	r.totalIn += len(input)

	keep := len(r.work) - histLen
	copy(r.work, r.work[keep:])
	r.work = r.work[:histLen]

	return n, nil
}

// PredictOutputLen returns the number of samples the next ProcessTo call
// produces for inputLen samples.
func (r *Resampler) PredictOutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}

	lastAvail := r.totalIn + inputLen - 1
	i := r.inputIndex
	phase := r.phase

	count := 0
	for i <= lastAvail {
		count++
		phase += r.down
		i += phase / r.up
		phase %= r.up
	}

	return count
}
