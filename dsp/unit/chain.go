package unit

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-degrade/dsp/core"
	"github.com/sirupsen/logrus"
)

// ErrInvalidPatch is returned for malformed patch documents.
var ErrInvalidPatch = errors.New("unit: invalid patch")

type patchUnit struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Bypassed bool           `json:"bypassed"`
	Params   map[string]any `json:"params"`
}

type patch struct {
	Units []patchUnit `json:"units"`
}

// ParsePatch parses a JSON patch into per-unit parameters in processing
// order. Units without an id are named after their type and position.
func ParsePatch(data []byte) ([]Params, error) {
	var doc patch
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}

	seen := make(map[string]struct{}, len(doc.Units))
	out := make([]Params, 0, len(doc.Units))

	for i, u := range doc.Units {
		if u.Type == "" {
			return nil, fmt.Errorf("%w: unit %d has no type", ErrInvalidPatch, i)
		}

		id := u.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", u.Type, i)
		}

		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidPatch, id)
		}

		seen[id] = struct{}{}

		num, str := parseParams(u.Params)
		out = append(out, Params{
			ID:       id,
			Type:     u.Type,
			Bypassed: u.Bypassed,
			Num:      num,
			Str:      str,
		})
	}

	return out, nil
}

type node struct {
	params Params
	unit   Unit
}

// Chain processes a block through a series of units. A Chain is itself a
// Unit and forwards control requests to every member that supports them.
type Chain struct {
	log   *logrus.Entry
	nodes []node

	blockSize int
	bufA      []float64
	bufB      []float64
}

// NewChain creates every unit described by params using reg.
func NewChain(reg *Registry, ctx Context, params []Params) (*Chain, error) {
	c := &Chain{log: ctx.Log}
	if c.log == nil {
		c.log = logrus.WithField("unit", "chain")
	}

	for _, p := range params {
		u, err := reg.New(ctx, p)
		if err != nil {
			return nil, err
		}

		c.nodes = append(c.nodes, node{params: p, unit: u})
	}

	return c, nil
}

// LoadChain parses a JSON patch and creates its units.
func LoadChain(reg *Registry, ctx Context, data []byte) (*Chain, error) {
	params, err := ParsePatch(data)
	if err != nil {
		return nil, err
	}

	return NewChain(reg, ctx, params)
}

// Len returns the number of units.
func (c *Chain) Len() int {
	return len(c.nodes)
}

// Lookup returns the unit with the given id.
func (c *Chain) Lookup(id string) (Unit, bool) {
	for _, n := range c.nodes {
		if n.params.ID == id {
			return n.unit, true
		}
	}

	return nil, false
}

// Configure configures every unit with the same host settings. All units
// are attempted; failures are joined into the returned error and the failing
// units output silence.
func (c *Chain) Configure(sampleRate float64, blockSize int) error {
	hc, _ := core.Sanitize(sampleRate, blockSize)

	var errs []error

	for _, n := range c.nodes {
		if err := n.unit.Configure(sampleRate, blockSize); err != nil {
			errs = append(errs, fmt.Errorf("configure %q (%s): %w", n.params.ID, n.params.Type, err))
		}
	}

	c.blockSize = hc.BlockSize
	c.bufA = make([]float64, hc.BlockSize)
	c.bufB = make([]float64, hc.BlockSize)

	c.log.WithFields(logrus.Fields{
		"function":    "Configure",
		"units":       len(c.nodes),
		"sample_rate": hc.SampleRate,
		"block_size":  hc.BlockSize,
		"failed":      len(errs),
	}).Info("Chain configured")

	return errors.Join(errs...)
}

// ProcessBlock runs in through every unit that is not bypassed. An empty
// chain copies in to out.
func (c *Chain) ProcessBlock(out, in []float64) {
	if c.blockSize == 0 || len(in) != c.blockSize || len(out) != c.blockSize {
		clear(out)
		return
	}

	src, dst, spare := in, c.bufA, c.bufB

	for _, n := range c.nodes {
		if n.params.Bypassed {
			continue
		}

		n.unit.ProcessBlock(dst, src)
		src, dst, spare = dst, spare, dst
	}

	copy(out, src)
}

// RequestPacketLoss forwards to every unit that can drop a frame.
func (c *Chain) RequestPacketLoss() {
	for _, n := range c.nodes {
		if r, ok := n.unit.(PacketLossRequester); ok {
			r.RequestPacketLoss()
		}
	}
}

// SelectImpulseResponse forwards to every unit that switches impulse
// responses.
func (c *Chain) SelectImpulseResponse(index float64) {
	for _, n := range c.nodes {
		if s, ok := n.unit.(ImpulseResponseSelector); ok {
			s.SelectImpulseResponse(index)
		}
	}
}

// SetDelay forwards to every unit with an adjustable delay and returns the
// joined rejections.
func (c *Chain) SetDelay(ms float64) error {
	var errs []error

	for _, n := range c.nodes {
		if d, ok := n.unit.(DelaySetter); ok {
			if err := d.SetDelay(ms); err != nil {
				errs = append(errs, fmt.Errorf("%q: %w", n.params.ID, err))
			}
		}
	}

	return errors.Join(errs...)
}
