// Package buffer provides the fixed-capacity circular buffer used to decouple
// producers and consumers that work in different block sizes.
//
// A [Ring] tracks a chunk size, the unit of readiness: consumers check
// [Ring.HasChunk] before popping. Writes never block; when the ring is full the
// oldest samples are overwritten. Views returned by [Ring.Pop] and [Ring.Read]
// are borrowed and stay valid until the next call that mutates the ring.
package buffer
