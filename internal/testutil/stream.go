package testutil

import (
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// BlockProcessor is anything that maps one input block to one output block.
type BlockProcessor interface {
	ProcessBlock(out, in []float64)
}

// Stream feeds x through p in blocks of the given size and returns the
// concatenated output. A trailing partial block is dropped.
func Stream(p BlockProcessor, x []float64, block int) []float64 {
	n := len(x) / block * block
	y := make([]float64, n)

	for i := 0; i < n; i += block {
		p.ProcessBlock(y[i:i+block], x[i:i+block])
	}

	return y
}

// NullLogger returns a log entry that discards output and a hook recording
// every entry.
func NullLogger() (*logrus.Entry, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	return logrus.NewEntry(logger), hook
}

// CountLevel returns how many recorded entries have the given level.
func CountLevel(hook *logtest.Hook, level logrus.Level) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Level == level {
			n++
		}
	}
	return n
}
