// Package degrade provides transmission degradations for speech quality
// experiments: the G.711 A-law codec with packet loss concealment, the
// modulated noise reference unit (MNRU), a voice activity detector and a
// rate-converting passthrough.
//
// Every constructor returns a unit that adapts the host's block size and
// sample rate to the degradation's own frame size and internal rate through
// a codec.Pipeline.
package degrade
