package unit

import (
	"github.com/cwbudde/algo-degrade/dsp/conv"
	"github.com/sirupsen/logrus"
)

// Context provides what factories need beyond the unit parameters.
type Context struct {
	// Log is the parent entry; factories add a unit field. Nil means the
	// standard logger.
	Log *logrus.Entry
}

func (c Context) logger(p Params) *logrus.Entry {
	log := c.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return log.WithFields(logrus.Fields{"unit": p.Type, "id": p.ID})
}

// IRProvider loads impulse response banks by name without tying units to a
// file format.
type IRProvider interface {
	ImpulseResponses(name string) (conv.ImpulseResponses, error)
}

// IRProviderFunc adapts a function to IRProvider.
type IRProviderFunc func(name string) (conv.ImpulseResponses, error)

// ImpulseResponses calls f.
func (f IRProviderFunc) ImpulseResponses(name string) (conv.ImpulseResponses, error) {
	return f(name)
}
