// Package window generates the Hann analysis window used for short-time
// spectra and applies it to frames.
package window
