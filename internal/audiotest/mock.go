// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides in-memory sources for tests. The types satisfy
// audio.Source without importing it.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates frames from a waveform function.
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int
	waveform     func(sample int, channel int) float32
}

func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 { return 0 })
}

// NewSineSource plays the same sine on every channel.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, _ int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewRampSource emits sample/total on every channel plus channel/10, which
// makes frame order and channel layout easy to assert.
func NewRampSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample, channel int) float32 {
		return float32(sample)/float32(totalSamples) + float32(channel)/10
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Reset rewinds the generator.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalSamples-m.generated)
	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += frames

	if m.generated >= m.totalSamples {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

// ErrSource fails every read with Err after serving Frames silent frames.
type ErrSource struct {
	Rate   int
	Chans  int
	Frames int
	Err    error
	Closed bool
}

func (e *ErrSource) SampleRate() int { return e.Rate }
func (e *ErrSource) Channels() int   { return e.Chans }
func (e *ErrSource) BufSize() int    { return 1024 }

func (e *ErrSource) Close() error {
	e.Closed = true
	return nil
}

func (e *ErrSource) ReadSamples(dst []float32) (int, error) {
	if e.Frames <= 0 {
		return 0, e.Err
	}

	frames := min(len(dst)/e.Chans, e.Frames)
	clear(dst[:frames*e.Chans])
	e.Frames -= frames

	return frames * e.Chans, nil
}
