// Package conv implements block-wise FFT convolution with run-time
// switching between impulse responses.
//
// An [Engine] buffers host blocks into frames as long as the impulse
// responses, convolves each frame with the active response through a real
// FFT of length 2*frames-1 and overlap-adds the tail into the next frame.
// Selecting another response crossfades the two convolutions over one frame
// with a power-complementary taper ([CrossfadeCurve]).
//
// Spectra are kept in half-complex layout; see [PackHalfComplex] and
// [MulHalfComplex]. [Direct] is a time-domain reference.
package conv
