// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"errors"
	"fmt"
	"io"
)

var ErrNegativeOffset = errors.New("negative position")

// Buffer is an in-memory io.ReadWriteSeeker. The go-audio codecs need to seek
// and callers often hand over plain readers and writers.
type Buffer struct {
	data   []byte
	offset int64
}

// NewBuffer wraps data for reading.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// ReadSeeker returns r if it already seeks, otherwise buffers it entirely.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}

	return NewBuffer(data), nil
}

// Bytes returns the whole buffer regardless of the offset.
func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) Read(p []byte) (int, error) {
	if b.offset >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.offset:])
	b.offset += int64(n)

	return n, nil
}

func (b *Buffer) Write(p []byte) (int, error) {
	end := b.offset + int64(len(p))
	if end > int64(len(b.data)) {
		if end > int64(cap(b.data)) {
			grown := make([]byte, end, max(end, 2*int64(cap(b.data))))
			copy(grown, b.data)
			b.data = grown
		} else {
			b.data = b.data[:end]
		}
	}
	copy(b.data[b.offset:end], p)
	b.offset = end

	return len(p), nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = b.offset + offset
	case io.SeekEnd:
		pos = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if pos < 0 {
		return 0, ErrNegativeOffset
	}
	b.offset = pos

	return pos, nil
}
