// SPDX-License-Identifier: EPL-2.0

// Package ring provides fixed power-of-two circular buffers indexed through a bitmask.
//
// A Buffer never grows after construction. Any integer index is valid: it is folded
// into range with `i & mask`, so negative offsets wrap to the tail the same way the
// correlators expect when they look back past the start of the stream.
package ring

// Buffer is a power-of-two sized circular buffer.
type Buffer[T any] struct {
	data []T
	mask int
}

// RoundSize returns the smallest power of two that is >= n (1 for n <= 1).
func RoundSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}

// New allocates a zeroed buffer holding at least minSize elements.
func New[T any](minSize int) *Buffer[T] {
	size := RoundSize(minSize)

	return &Buffer[T]{
		data: make([]T, size),
		mask: size - 1,
	}
}

// Len returns the capacity (always a power of two).
func (b *Buffer[T]) Len() int { return len(b.data) }

// Mask returns Len()-1.
func (b *Buffer[T]) Mask() int { return b.mask }

// At returns the element at i folded into range.
func (b *Buffer[T]) At(i int) T { return b.data[i&b.mask] }

// Set stores v at i folded into range.
func (b *Buffer[T]) Set(i int, v T) { b.data[i&b.mask] = v }

// Clear zeroes every element.
func (b *Buffer[T]) Clear() {
	clear(b.data)
}
