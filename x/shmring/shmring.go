package shmring

import "sync/atomic"

// Ring is a bounded single-producer, single-consumer FIFO of T.
//
// Indices are monotonic uint32 counters; the backing slice is rounded up to
// a power of two so that wrap-around of the counters stays consistent, while
// Cap reports the logical capacity requested by the caller.
type Ring[T any] struct {
	buf  []T
	mask uint32
	cap  uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	readable chan struct{} // empty -> non-empty edge
	writable chan struct{} // full -> non-full edge
}

// New allocates a ring holding at most capacity items (>= 1).
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		panic("shmring: capacity must be >= 1")
	}
	size := uint32(1)
	for size < uint32(capacity) {
		size <<= 1
	}
	return &Ring[T]{
		buf:      make([]T, size),
		mask:     size - 1,
		cap:      uint32(capacity),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

func (r *Ring[T]) Cap() int { return int(r.cap) }

// Len is the number of queued items as seen by the caller.
func (r *Ring[T]) Len() int {
	return int(r.wr.Load() - r.rd.Load())
}

func (r *Ring[T]) Space() int { return int(r.cap) - r.Len() }

// Producer side

// TryPush appends v, reporting false when the ring is full.
func (r *Ring[T]) TryPush(v T) bool {
	rd := r.rd.Load()
	wr := r.wr.Load()
	used := wr - rd
	if used >= r.cap {
		return false
	}
	r.buf[wr&r.mask] = v
	r.wr.Store(wr + 1) // release

	if used == 0 {
		select {
		case r.readable <- struct{}{}:
		default:
		}
	}
	return true
}

// Consumer side

// TryPop removes the oldest item, reporting false when the ring is empty.
func (r *Ring[T]) TryPop() (T, bool) {
	var zero T
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	used := wr - rd
	if used == 0 {
		return zero, false
	}
	v := r.buf[rd&r.mask]
	r.buf[rd&r.mask] = zero
	r.rd.Store(rd + 1) // release

	if used == r.cap {
		select {
		case r.writable <- struct{}{}:
		default:
		}
	}
	return v, true
}

// Peek returns the oldest item without removing it. Consumer side only.
func (r *Ring[T]) Peek() (T, bool) {
	var zero T
	rd := r.rd.Load()
	if r.wr.Load() == rd {
		return zero, false
	}
	return r.buf[rd&r.mask], true
}

// Drain discards everything currently queued. Consumer side only.
func (r *Ring[T]) Drain() int {
	n := 0
	for {
		if _, ok := r.TryPop(); !ok {
			return n
		}
		n++
	}
}

func (r *Ring[T]) Readable() <-chan struct{} { return r.readable }
func (r *Ring[T]) Writable() <-chan struct{} { return r.writable }
