// Package unit hosts degradation units behind one block-processing
// contract.
//
// A [Registry] maps unit type names to factories. [DefaultRegistry] knows
// every unit of this module. A [Chain] is a serial patch of units parsed
// from JSON:
//
//	{"units": [
//	  {"id": "codec", "type": "g711", "params": {"frame_size": 160, "plc": 1}},
//	  {"id": "room", "type": "convolve_dynamic", "params": {"ir": "rooms.wav"}}
//	]}
//
// Registries are plain values; nothing is registered globally.
package unit
