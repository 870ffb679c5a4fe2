// Package audiofile reads and writes the WAV files used by the degrade
// command: mono signals and multi-channel impulse response banks.
package audiofile
