package window

import "errors"

// ErrMismatchedLength indicates samples, coefficients or destination of
// different length.
var ErrMismatchedLength = errors.New("window: samples and coefficients must have same length")
