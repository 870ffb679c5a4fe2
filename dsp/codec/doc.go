// Package codec bridges a host's block size and sample rate to the fixed
// frame size and internal rate of a frame-based processor such as a speech
// codec.
//
// A Pipeline resamples each host block to the internal rate, accumulates the
// result in a ring buffer, hands whole frames to its Processor, resamples the
// processed frames back and drains one host block per call from a second
// ring buffer. Until enough output has accumulated the pipeline emits
// silence.
//
// The per-block path never allocates and never blocks; all buffers and
// converters are built in Configure.
package codec
