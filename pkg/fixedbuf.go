package pkg

import "io"

// FixedVec is a bounded, fixed-capacity sequence. The capacity is set at
// construction and never changes behind the caller's back: a push into a
// full vector is rejected instead of reallocating. Only the initialized
// prefix [0, Len()) is ever observable.
type FixedVec[T any] struct {
	items []T
}

// NewFixedVec returns an empty vector that can hold up to capacity elements.
func NewFixedVec[T any](capacity int) *FixedVec[T] {
	return &FixedVec[T]{items: make([]T, 0, capacity)}
}

// TryPush appends v and reports whether it fit. When the vector is full it
// reports false and leaves the vector unchanged; the rejected value stays
// with the caller.
func (v *FixedVec[T]) TryPush(x T) bool {
	if len(v.items) == cap(v.items) {
		return false
	}
	v.items = append(v.items, x)
	return true
}

// Pop removes and returns the last element. The second return value is
// false when the vector is empty.
func (v *FixedVec[T]) Pop() (T, bool) {
	var zero T
	if len(v.items) == 0 {
		return zero, false
	}
	x := v.items[len(v.items)-1]
	v.items[len(v.items)-1] = zero
	v.items = v.items[:len(v.items)-1]
	return x, true
}

// Extend copies min(spare capacity, len(src)) elements from src and returns
// the number copied. Excess elements are silently dropped; truncation is the
// contract here, not an error.
func (v *FixedVec[T]) Extend(src []T) int {
	n := cap(v.items) - len(v.items)
	if n > len(src) {
		n = len(src)
	}
	v.items = append(v.items, src[:n]...)
	return n
}

// Slice returns the initialized prefix. The slice aliases the vector's
// storage and is invalidated by the next mutation.
func (v *FixedVec[T]) Slice() []T { return v.items }

func (v *FixedVec[T]) Len() int { return len(v.items) }

func (v *FixedVec[T]) Cap() int { return cap(v.items) }

func (v *FixedVec[T]) IsEmpty() bool { return len(v.items) == 0 }

func (v *FixedVec[T]) IsFull() bool { return len(v.items) == cap(v.items) }

// Clear resets the length to zero. Element storage is zeroed so no stale
// values linger past Len().
func (v *FixedVec[T]) Clear() {
	var zero T
	for i := range v.items {
		v.items[i] = zero
	}
	v.items = v.items[:0]
}

// Grow doubles the capacity. Current contents are DISCARDED: the vector
// comes back empty. Callers needing content-preserving growth must not use
// this.
func (v *FixedVec[T]) Grow() {
	c := cap(v.items) * 2
	if c == 0 {
		c = 1
	}
	v.items = make([]T, 0, c)
}

// FixedBuf is the byte specialization of FixedVec used as scratch space
// when slurping small attribute and config-space files.
type FixedBuf struct {
	FixedVec[byte]
}

// NewFixedBuf returns an empty byte buffer with the given capacity.
func NewFixedBuf(capacity int) *FixedBuf {
	return &FixedBuf{FixedVec[byte]{items: make([]byte, 0, capacity)}}
}

// ReadFrom fills the buffer's spare capacity from r, stopping at EOF or
// when the buffer is full. Content beyond the capacity is left unread;
// like Extend, truncation is deliberate.
func (b *FixedBuf) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for len(b.items) < cap(b.items) {
		n, err := r.Read(b.items[len(b.items):cap(b.items)])
		b.items = b.items[:len(b.items)+n]
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes returns the initialized prefix.
func (b *FixedBuf) Bytes() []byte { return b.items }
