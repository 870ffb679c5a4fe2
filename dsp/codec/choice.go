package codec

import (
	"slices"

	"github.com/sirupsen/logrus"
)

// ValidateChoice returns value when it is one of allowed. Otherwise it logs
// the rejected value and returns def.
func ValidateChoice[T comparable](log *logrus.Entry, name string, value T, allowed []T, def T) T {
	if slices.Contains(allowed, value) {
		return value
	}

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	log.WithFields(logrus.Fields{
		"function": "ValidateChoice",
		"param":    name,
		"value":    value,
		"allowed":  allowed,
		"default":  def,
	}).Warn("Invalid parameter, using default")

	return def
}
