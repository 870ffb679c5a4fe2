package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-degrade/audiofile"
	"github.com/cwbudde/algo-degrade/dsp/unit"
	"github.com/sirupsen/logrus"
)

// selection switches the impulse response at a given block.
type selection struct {
	block int
	index float64
}

func parseSelections(s string) ([]selection, error) {
	if s == "" {
		return nil, nil
	}

	var out []selection

	for _, part := range strings.Split(s, ",") {
		blockStr, indexStr, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid selection %q: want block:index", part)
		}

		block, err := strconv.Atoi(blockStr)
		if err != nil || block < 0 {
			return nil, fmt.Errorf("invalid selection block %q", blockStr)
		}

		index, err := strconv.ParseFloat(indexStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid selection index %q: %w", indexStr, err)
		}

		out = append(out, selection{block: block, index: index})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].block < out[j].block })

	return out, nil
}

func loadChain(o options, log *logrus.Entry) (*unit.Chain, error) {
	irDir := o.irDir
	if irDir == "" && o.patch != "" {
		irDir = filepath.Dir(o.patch)
	}

	reg := unit.DefaultRegistry(unit.WithIRProvider(audiofile.IRDir(irDir)))
	ctx := unit.Context{Log: log}

	if o.patch != "" {
		data, err := os.ReadFile(o.patch)
		if err != nil {
			return nil, err
		}

		return unit.LoadChain(reg, ctx, data)
	}

	typ := o.unitType
	if typ == "" {
		typ = "passthrough"
	}

	return unit.NewChain(reg, ctx, []unit.Params{{ID: typ, Type: typ}})
}

func run(o options, stdout io.Writer, log *logrus.Entry) error {
	if o.list {
		for _, t := range unit.DefaultRegistry().Types() {
			fmt.Fprintln(stdout, t)
		}

		return nil
	}

	selections, err := parseSelections(o.selectAt)
	if err != nil {
		return err
	}

	in, err := audiofile.ReadFile(o.args[0])
	if err != nil {
		return err
	}

	chain, err := loadChain(o, log)
	if err != nil {
		return err
	}

	if err := chain.Configure(in.SampleRate, o.block); err != nil {
		log.WithError(err).Warn("Some units failed to configure and will output silence")
	}

	x := in.Mono()
	y := process(chain, x, o.block, o.lossEvery, selections)

	log.WithFields(logrus.Fields{
		"input":       o.args[0],
		"output":      o.args[1],
		"samples":     len(y),
		"sample_rate": in.SampleRate,
		"units":       chain.Len(),
	}).Info("Processed")

	return audiofile.WriteFile(o.args[1], audiofile.Signal{
		Samples:    y,
		Channels:   1,
		SampleRate: in.SampleRate,
	}, o.bitDepth)
}

// process runs x through c block by block. The last partial block is
// zero-padded; the output has the length of x.
func process(c *unit.Chain, x []float64, block, lossEvery int, selections []selection) []float64 {
	if block <= 0 {
		block = 64
	}

	in := make([]float64, block)
	out := make([]float64, block)
	y := make([]float64, len(x))

	for n, pos := 0, 0; pos < len(x); n, pos = n+1, pos+block {
		for len(selections) > 0 && selections[0].block <= n {
			c.SelectImpulseResponse(selections[0].index)
			selections = selections[1:]
		}

		if lossEvery > 0 && n > 0 && n%lossEvery == 0 {
			c.RequestPacketLoss()
		}

		clear(in)
		copy(in, x[pos:])
		c.ProcessBlock(out, in)
		copy(y[pos:], out)
	}

	return y
}
