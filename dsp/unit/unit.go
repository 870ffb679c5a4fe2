package unit

// Unit is the host-facing contract shared by all degradation units.
type Unit interface {
	// Configure (re)builds the unit for the host sample rate and block size.
	Configure(sampleRate float64, blockSize int) error
	// ProcessBlock consumes one host block and produces one host block.
	ProcessBlock(out, in []float64)
}

// PacketLossRequester is implemented by units that can drop their next frame.
type PacketLossRequester interface {
	RequestPacketLoss()
}

// ImpulseResponseSelector is implemented by units that switch between
// impulse responses.
type ImpulseResponseSelector interface {
	SelectImpulseResponse(index float64)
}

// DelaySetter is implemented by units with an adjustable delay.
type DelaySetter interface {
	SetDelay(ms float64) error
}
