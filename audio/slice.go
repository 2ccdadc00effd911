// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// SliceSource serves interleaved samples from memory.
type SliceSource struct {
	rate     int
	channels int
	data     []float32
	off      int
}

// NewSliceSource wraps data; a trailing partial frame is dropped.
func NewSliceSource(rate, channels int, data []float32) *SliceSource {
	if channels < 1 {
		channels = 1
	}

	return &SliceSource{
		rate:     rate,
		channels: channels,
		data:     data[:len(data)/channels*channels],
	}
}

func (s *SliceSource) SampleRate() int { return s.rate }
func (s *SliceSource) Channels() int   { return s.channels }
func (s *SliceSource) BufSize() int    { return 4096 }
func (s *SliceSource) Close() error    { return nil }

func (s *SliceSource) ReadSamples(dst []float32) (int, error) {
	if s.off >= len(s.data) {
		return 0, io.EOF
	}

	n := copy(dst[:len(dst)/s.channels*s.channels], s.data[s.off:])
	s.off += n
	if s.off >= len(s.data) {
		return n, io.EOF
	}

	return n, nil
}
