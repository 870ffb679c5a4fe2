// Package resample provides rational sample-rate conversion using polyphase FIR
// filtering with anti-aliasing defaults.
//
// The lowpass cutoff follows the conversion factor: it sits just below the
// Nyquist frequency of the slower rate, and the filter grows with the
// decimation or interpolation factor.
//
// Quality modes:
//
//	mode            taps per slow-rate sample   stopband
//	QualityFast     16                          ~55 dB
//	QualityBalanced 32                          ~75 dB
//	QualityBest     64                          ~90 dB
//
// NewConverter and NewConverterForRates serve block-oriented real-time paths
// that hand over whole host blocks and need every sample consumed.
// NewRational exposes the underlying streaming filter; its ProcessTo is
// allocation-free.
package resample
