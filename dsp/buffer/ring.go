package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize indicates a non-positive capacity or chunk size.
	ErrInvalidSize = errors.New("buffer: invalid size")
	// ErrChunkTooLarge indicates a chunk size above half the ring capacity.
	ErrChunkTooLarge = errors.New("buffer: chunk size exceeds half the capacity")
)

// Ring is a fixed-capacity circular buffer with a chunk-size readiness threshold.
//
// The ring must always be able to hold two chunks (one filling, one draining),
// so chunkSize <= size/2 is enforced. Ring is not safe for concurrent use.
type Ring[T any] struct {
	data  []T
	start int
	end   int
	count int

	chunkSize int

	// scratch materialises views that wrap the end of data.
	scratch []T

	overruns int
}

// NewRing returns a ring with the given capacity and chunk size.
func NewRing[T any](size, chunkSize int) (*Ring[T], error) {
	if size <= 0 || chunkSize <= 0 {
		return nil, fmt.Errorf("%w: size=%d chunk=%d", ErrInvalidSize, size, chunkSize)
	}

	if chunkSize > size/2 {
		return nil, fmt.Errorf("%w: size=%d chunk=%d", ErrChunkTooLarge, size, chunkSize)
	}

	return &Ring[T]{
		data:      make([]T, size),
		chunkSize: chunkSize,
		scratch:   make([]T, size),
	}, nil
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// Len returns the number of buffered elements.
func (r *Ring[T]) Len() int {
	return r.count
}

// ChunkSize returns the readiness threshold.
func (r *Ring[T]) ChunkSize() int {
	return r.chunkSize
}

// SetChunkSize changes the readiness threshold. Buffered data is kept.
func (r *Ring[T]) SetChunkSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: chunk=%d", ErrInvalidSize, n)
	}

	if n > len(r.data)/2 {
		return fmt.Errorf("%w: size=%d chunk=%d", ErrChunkTooLarge, len(r.data), n)
	}

	r.chunkSize = n

	return nil
}

// Overruns returns how many elements were overwritten before being consumed.
func (r *Ring[T]) Overruns() int {
	return r.overruns
}

// HasChunk reports whether at least one chunk is buffered.
func (r *Ring[T]) HasChunk() bool {
	return r.count >= r.chunkSize
}

// Push appends data. On overflow the oldest elements are overwritten.
func (r *Ring[T]) Push(data []T) {
	size := len(r.data)

	// Only the newest size elements can survive.
	if len(data) > size {
		dropped := len(data) - size
		r.overruns += dropped
		data = data[dropped:]
	}

	for len(data) > 0 {
		n := copy(r.data[r.end:], data)
		data = data[n:]

		r.end += n
		if r.end == size {
			r.end = 0
		}

		r.count += n
	}

	if r.count > size {
		lost := r.count - size
		r.overruns += lost
		r.count = size
		r.start = r.end
	}
}

// Pop returns the next n elements and removes them from the ring.
//
// The returned slice is borrowed: it may alias the ring storage or its scratch
// buffer and is only valid until the next mutating call. Pop returns nil if
// fewer than n elements are buffered.
func (r *Ring[T]) Pop(n int) []T {
	view := r.Read(n)
	if view == nil {
		return nil
	}

	r.start = (r.start + n) % len(r.data)
	r.count -= n

	return view
}

// Read returns the next n elements without removing them. The same
// borrowing rules as [Ring.Pop] apply.
func (r *Ring[T]) Read(n int) []T {
	if n <= 0 || n > r.count {
		return nil
	}

	if r.start+n <= len(r.data) {
		return r.data[r.start : r.start+n]
	}

	first := copy(r.scratch, r.data[r.start:])
	copy(r.scratch[first:n], r.data)

	return r.scratch[:n]
}

// Reset discards all buffered elements.
func (r *Ring[T]) Reset() {
	r.start = 0
	r.end = 0
	r.count = 0
	r.overruns = 0
}
