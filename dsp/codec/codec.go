package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates an unusable internal rate or frame size.
	ErrInvalidConfig = errors.New("codec: invalid config")
	// ErrNotConfigured is returned by operations that need Configure first.
	ErrNotConfigured = errors.New("codec: not configured")
	// ErrInit indicates that the processor failed to (re)initialise.
	ErrInit = errors.New("codec: initialisation failed")
)

// Processor transforms one internal-rate frame in place.
//
// frame always holds exactly the configured frame size. When lost is true the
// frame stands for a dropped packet and the processor substitutes its
// concealment behaviour for normal processing.
type Processor interface {
	ProcessFrame(frame []float64, lost bool) error
}

// Resetter is implemented by processors that keep state tied to the
// internal rate or frame size. Reset is called on every reconfiguration.
type Resetter interface {
	Reset(internalRate float64, frameSize int) error
}

// Codec is a frame codec with packet loss concealment.
type Codec interface {
	// Encode appends the encoded frame to dst and returns the extended slice.
	Encode(dst []byte, frame []float64) ([]byte, error)
	// Decode decodes packet into dst, which holds one frame.
	Decode(dst []float64, packet []byte) error
	// Conceal fills dst with the codec's replacement for a lost frame.
	Conceal(dst []float64) error
}

// CodecProcessor runs every frame through an encode/decode round trip.
type CodecProcessor struct {
	codec  Codec
	packet []byte
}

// NewCodecProcessor wraps c. maxPacket is the largest encoded frame in bytes
// and sizes the packet scratch buffer.
func NewCodecProcessor(c Codec, maxPacket int) (*CodecProcessor, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil codec", ErrInvalidConfig)
	}

	if maxPacket <= 0 {
		return nil, fmt.Errorf("%w: max packet %d", ErrInvalidConfig, maxPacket)
	}

	return &CodecProcessor{
		codec:  c,
		packet: make([]byte, 0, maxPacket),
	}, nil
}

// ProcessFrame encodes and decodes frame, or conceals it when lost.
func (p *CodecProcessor) ProcessFrame(frame []float64, lost bool) error {
	if lost {
		return p.codec.Conceal(frame)
	}

	pkt, err := p.codec.Encode(p.packet[:0], frame)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	// Keep a grown buffer so the next frame does not allocate again.
	if cap(pkt) > cap(p.packet) {
		p.packet = pkt[:0]
	}

	if err := p.codec.Decode(frame, pkt); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	return nil
}

// Reset forwards to the codec when it keeps configuration-dependent state.
func (p *CodecProcessor) Reset(internalRate float64, frameSize int) error {
	if r, ok := p.codec.(Resetter); ok {
		return r.Reset(internalRate, frameSize)
	}

	return nil
}
