package degrade

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-degrade/dsp/codec"
	"github.com/sirupsen/logrus"
)

// ErrPacketSize indicates a packet that does not hold exactly one frame.
var ErrPacketSize = errors.New("degrade: packet size does not match frame")

// G.711 operates on 8 kHz narrowband speech.
const g711Rate = 8000

// G711FrameSizes lists the accepted frame sizes (10, 20 and 30 ms).
var G711FrameSizes = []int{80, 160, 240}

// PLCMode selects how a lost G.711 frame is replaced.
type PLCMode int

const (
	// PLCZero replaces a lost frame with silence.
	PLCZero PLCMode = iota
	// PLCRepeat repeats the last received audio and fades it out over
	// consecutive losses.
	PLCRepeat
)

func (m PLCMode) String() string {
	if m == PLCRepeat {
		return "repeat"
	}

	return "zero"
}

// Waveform repetition plays the history at full level for plcHoldSamples,
// then attenuates linearly to silence over plcFadeSamples (10 ms and 50 ms
// at 8 kHz).
const (
	plcHoldSamples = 80
	plcFadeSamples = 400
)

// ALaw is a G.711 A-law codec. One encoded byte carries one sample.
type ALaw struct {
	plc PLCMode

	history     []float64
	haveHistory bool
	lostSamples int
}

// NewALaw returns an A-law codec using plc for lost frames.
func NewALaw(plc PLCMode) *ALaw {
	return &ALaw{plc: plc}
}

// Encode appends the A-law bytes of frame to dst.
func (c *ALaw) Encode(dst []byte, frame []float64) ([]byte, error) {
	for _, v := range frame {
		dst = append(dst, linearToALaw(floatToPCM16(v)))
	}

	return dst, nil
}

// Decode expands packet into dst and records it as concealment history.
func (c *ALaw) Decode(dst []float64, packet []byte) error {
	if len(packet) != len(dst) {
		return fmt.Errorf("%w: %d bytes for %d samples", ErrPacketSize, len(packet), len(dst))
	}

	for i, b := range packet {
		dst[i] = pcm16ToFloat(aLawToLinear(b))
	}

	if len(c.history) != len(dst) {
		c.history = make([]float64, len(dst))
	}

	copy(c.history, dst)
	c.haveHistory = true
	c.lostSamples = 0

	return nil
}

// Conceal fills dst according to the PLC mode.
func (c *ALaw) Conceal(dst []float64) error {
	if c.plc != PLCRepeat || !c.haveHistory {
		clear(dst)
		return nil
	}

	for i := range dst {
		gain := 1.0
		if over := c.lostSamples - plcHoldSamples; over > 0 {
			gain = max(0, 1-float64(over)/plcFadeSamples)
		}

		dst[i] = gain * c.history[i%len(c.history)]
		c.lostSamples++
	}

	return nil
}

// Reset drops the concealment history.
func (c *ALaw) Reset(_ float64, frameSize int) error {
	c.history = make([]float64, frameSize)
	c.haveHistory = false
	c.lostSamples = 0

	return nil
}

// NewG711 returns a G.711 A-law unit. Invalid frame sizes fall back to 80
// samples and invalid PLC modes to PLCZero.
func NewG711(frameSize int, plc PLCMode, opts ...Option) (*codec.Pipeline, error) {
	cfg := applyOptions("g711", opts)

	frameSize = codec.ValidateChoice(cfg.log, "frame_size", frameSize, G711FrameSizes, G711FrameSizes[0])
	plc = codec.ValidateChoice(cfg.log, "plc_mode", plc, []PLCMode{PLCZero, PLCRepeat}, PLCZero)

	proc, err := codec.NewCodecProcessor(NewALaw(plc), frameSize)
	if err != nil {
		return nil, err
	}

	p, err := codec.New(proc, codec.Config{Name: "g711", InternalRate: g711Rate, FrameSize: frameSize}, cfg.pipelineOptions()...)
	if err != nil {
		return nil, err
	}

	cfg.log.WithFields(logrus.Fields{
		"function":   "NewG711",
		"frame_size": frameSize,
		"plc_mode":   plc.String(),
	}).Info("Created G.711 unit")

	return p, nil
}
