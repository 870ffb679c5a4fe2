// Command degrade runs a WAV file through a chain of degradation units.
//
// Usage:
//
//	degrade [flags] input.wav output.wav
//
// The chain is either a JSON patch (-patch) or a single unit with default
// parameters (-unit). Multi-channel input is mixed down to mono.
//
// Examples:
//
//	degrade -unit g711 -loss-every 50 speech.wav out.wav
//	degrade -patch telephone.json -block 128 speech.wav out.wav
//	degrade -patch rooms.json -select-at 100:1,400:2 speech.wav out.wav
//	degrade -list
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var errUsage = errors.New("usage")

type options struct {
	patch     string
	unitType  string
	block     int
	lossEvery int
	irDir     string
	selectAt  string
	bitDepth  int
	verbose   bool
	list      bool
	args      []string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("degrade", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.patch, "patch", "", "JSON patch describing the unit chain")
	fs.StringVar(&o.unitType, "unit", "", "single unit type with default parameters (ignored with -patch)")
	fs.IntVar(&o.block, "block", 64, "host block size in samples")
	fs.IntVar(&o.lossEvery, "loss-every", 0, "request a packet loss every N blocks (0 disables)")
	fs.StringVar(&o.irDir, "ir", "", "directory impulse response names are resolved against (default: patch directory)")
	fs.StringVar(&o.selectAt, "select-at", "", "impulse response switches as block:index pairs, e.g. 100:1,400:0")
	fs.IntVar(&o.bitDepth, "bits", 16, "output bit depth")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	fs.BoolVar(&o.list, "list", false, "list available unit types")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: degrade [flags] input.wav output.wav\n\n")
		fmt.Fprintf(stderr, "Runs a WAV file through a chain of degradation units.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	o.args = fs.Args()
	if !o.list && len(o.args) != 2 {
		fs.Usage()
		return o, errUsage
	}

	return o, nil
}

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}

	if err != nil {
		os.Exit(2)
	}

	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	if err := run(opts, os.Stdout, logrus.NewEntry(log)); err != nil {
		log.WithError(err).Error("degrade failed")
		os.Exit(1)
	}
}
