package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-degrade/dsp/conv"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultBitDepth is the PCM bit depth used by the write helpers.
const DefaultBitDepth = 16

var (
	// ErrInvalidWAV indicates input that is not a readable WAV stream.
	ErrInvalidWAV = errors.New("audiofile: invalid WAV file")
	// ErrBitDepth indicates an unsupported PCM bit depth.
	ErrBitDepth = errors.New("audiofile: unsupported bit depth")
)

// Signal is decoded audio as interleaved samples in [-1, 1].
type Signal struct {
	Samples    []float64
	Channels   int
	SampleRate float64
}

// Frames returns the number of samples per channel.
func (s Signal) Frames() int {
	if s.Channels <= 0 {
		return 0
	}

	return len(s.Samples) / s.Channels
}

// Mono averages all channels into one.
func (s Signal) Mono() []float64 {
	if s.Channels <= 1 {
		return s.Samples
	}

	frames := s.Frames()
	out := make([]float64, frames)
	inv := 1 / float64(s.Channels)

	for i := range out {
		var sum float64
		for ch := range s.Channels {
			sum += s.Samples[i*s.Channels+ch]
		}

		out[i] = sum * inv
	}

	return out
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return math.Exp2(float64(bitDepth - 1)), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}
}

// Read decodes a PCM WAV stream.
func Read(r io.ReadSeeker) (Signal, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Signal{}, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Signal{}, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}

	bitDepth := int(dec.BitDepth)

	scale, err := fullScale(bitDepth)
	if err != nil {
		return Signal{}, err
	}

	// 8-bit WAV is unsigned.
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v-offset) / scale
	}

	return Signal{
		Samples:    samples,
		Channels:   buf.Format.NumChannels,
		SampleRate: float64(buf.Format.SampleRate),
	}, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return Signal{}, err
	}
	defer f.Close()

	sig, err := Read(f)
	if err != nil {
		return Signal{}, fmt.Errorf("%s: %w", path, err)
	}

	return sig, nil
}

// Write encodes interleaved samples as PCM WAV. Samples are clipped to
// [-1, 1].
func Write(w io.WriteSeeker, sig Signal, bitDepth int) error {
	scale, err := fullScale(bitDepth)
	if err != nil {
		return err
	}

	if sig.Channels <= 0 {
		return fmt.Errorf("%w: %d channels", ErrInvalidWAV, sig.Channels)
	}

	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	data := make([]int, len(sig.Samples))
	peak := scale - 1

	for i, v := range sig.Samples {
		data[i] = int(math.Round(math.Max(-scale, math.Min(peak, v*scale)))) + offset
	}

	rate := int(math.Round(sig.SampleRate))
	enc := wav.NewEncoder(w, rate, bitDepth, sig.Channels, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: sig.Channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return err
	}

	return enc.Close()
}

// WriteFile encodes sig to a new WAV file at path.
func WriteFile(path string, sig Signal, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, sig, bitDepth); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// ImpulseResponses converts a decoded file into an impulse response bank,
// one response per channel.
func (s Signal) ImpulseResponses() conv.ImpulseResponses {
	return conv.ImpulseResponses{
		Samples:    s.Samples,
		Channels:   s.Channels,
		SampleRate: s.SampleRate,
	}
}

// IRDir loads impulse response banks from WAV files below a directory.
// Names are resolved relative to it; absolute names are used as given.
type IRDir string

// ImpulseResponses loads the bank stored in the named file.
func (d IRDir) ImpulseResponses(name string) (conv.ImpulseResponses, error) {
	path := name
	if !filepath.IsAbs(name) {
		path = filepath.Join(string(d), name)
	}

	sig, err := ReadFile(path)
	if err != nil {
		return conv.ImpulseResponses{}, err
	}

	irs := sig.ImpulseResponses()
	if err := irs.Validate(); err != nil {
		return conv.ImpulseResponses{}, fmt.Errorf("%s: %w", path, err)
	}

	return irs, nil
}
