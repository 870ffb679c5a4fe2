package resample

import (
	"errors"
	"fmt"
	"math"
)

// SubBlockSize is the largest input span handed to the polyphase filter at once.
const SubBlockSize = 512

// converterMargin is added to the destination size on top of len*factor.
const converterMargin = 64

// ErrInputTooLong indicates a block longer than the converter was sized for.
var ErrInputTooLong = errors.New("resample: input exceeds converter block size")

// Converter applies a fixed conversion factor to a stream of variable-length
// blocks. It consumes every input block completely, in sub-blocks of at most
// SubBlockSize samples, and returns exactly the samples produced.
//
// A factor of 1 is an exact bypass. A Converter belongs to one configuration:
// when the block size or sample rate changes, create a new one.
type Converter struct {
	factor   float64
	maxInput int

	rs  *Resampler // nil for the bypass
	dst []float64
}

// NewConverter creates a converter producing roughly factor output samples per
// input sample for input blocks of up to maxInput samples. The factor is
// approximated by a fraction with a denominator of at most 4096.
func NewConverter(factor float64, maxInput int, opts ...Option) (*Converter, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: factor %v", ErrInvalidRatio, factor)
	}

	if maxInput <= 0 {
		return nil, fmt.Errorf("%w: max input %d", ErrInvalidRatio, maxInput)
	}

	up, down := approximateRatio(factor)

	c := &Converter{
		factor:   float64(up) / float64(down),
		maxInput: maxInput,
		dst:      make([]float64, int(math.Ceil(float64(maxInput)*float64(up)/float64(down)))+converterMargin),
	}

	if up == down {
		c.factor = 1
		return c, nil
	}

	rs, err := NewRational(up, down, append(opts, WithMaxBlock(SubBlockSize))...)
	if err != nil {
		return nil, err
	}

	c.rs = rs

	return c, nil
}

// NewConverterForRates creates a converter from inRate to outRate for input
// blocks of up to maxInput samples.
func NewConverterForRates(inRate, outRate float64, maxInput int, opts ...Option) (*Converter, error) {
	if !(inRate > 0) || !(outRate > 0) || math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, fmt.Errorf("%w: %v Hz to %v Hz", ErrInvalidRate, inRate, outRate)
	}

	return NewConverter(outRate/inRate, maxInput, opts...)
}

// Factor returns the effective conversion factor (output/input).
func (c *Converter) Factor() float64 {
	return c.factor
}

// MaxOutput returns an upper bound on the samples one Resample call returns.
func (c *Converter) MaxOutput() int {
	return len(c.dst)
}

// Resample converts input and returns a view of the produced samples. The
// view is owned by the converter and valid until the next call.
func (c *Converter) Resample(input []float64) ([]float64, error) {
	if len(input) > c.maxInput {
		return nil, fmt.Errorf("%w: %d > %d", ErrInputTooLong, len(input), c.maxInput)
	}

	if c.rs == nil {
		n := copy(c.dst, input)
		return c.dst[:n], nil
	}

	produced := 0

	for consumed := 0; consumed < len(input); {
		step := min(SubBlockSize, len(input)-consumed)

		n, err := c.rs.ProcessTo(c.dst[produced:], input[consumed:consumed+step])
		if err != nil {
			// Destination sizing guarantees room; reaching this is a logic error.
			return c.dst[:produced], err
		}

		consumed += step
		produced += n
	}

	return c.dst[:produced], nil
}

// Reset clears the filter history.
func (c *Converter) Reset() {
	if c.rs != nil {
		c.rs.Reset()
	}
}
