// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockReader simulates the go-audio decoders.
type mockReader struct {
	sampleRate int
	channels   int
	samples    []int
	offset     int
	fail       error
	signalEOF  bool
}

func (m *mockReader) Format() *goaudio.Format {
	return &goaudio.Format{SampleRate: m.sampleRate, NumChannels: m.channels}
}

func (m *mockReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.fail != nil {
		return 0, m.fail
	}
	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	if m.signalEOF && m.offset >= len(m.samples) {
		return n, io.EOF
	}

	return n, nil
}

func TestSourceNormalizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		bits      int
		unsigned8 bool
		in        []int
		want      []float32
	}{
		{name: "16 bit", bits: 16, in: []int{0, 16384, -32768, 32767}, want: []float32{0, 0.5, -1, 32767.0 / 32768}},
		{name: "24 bit", bits: 24, in: []int{1 << 22, -(1 << 23)}, want: []float32{0.5, -1}},
		{name: "32 bit", bits: 32, in: []int{-(1 << 30), 1 << 30}, want: []float32{-0.5, 0.5}},
		{name: "signed 8 bit", bits: 8, in: []int{64, -128}, want: []float32{0.5, -1}},
		{name: "unsigned 8 bit", bits: 8, unsigned8: true, in: []int{192, 0}, want: []float32{0.5, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := NewSource(&mockReader{sampleRate: 44100, channels: 1, samples: tt.in}, tt.bits, tt.unsigned8)
			require.NoError(t, err)
			assert.Equal(t, tt.bits, src.BitDepth())

			dst := make([]float32, 16)
			n, err := src.ReadSamples(dst)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, dst[:n], 1e-7)

			n, err = src.ReadSamples(dst)
			assert.Zero(t, n)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestSourceFramesAndEOF(t *testing.T) {
	t.Parallel()

	m := &mockReader{sampleRate: 48000, channels: 2, samples: []int{1, 2, 3, 4, 5, 6}, signalEOF: true}
	src, err := NewSource(m, 16, false)
	require.NoError(t, err)
	assert.Equal(t, 48000, src.SampleRate())
	assert.Equal(t, 2, src.Channels())

	// three slots only hold one stereo frame
	dst := make([]float32, 3)
	n, err := src.ReadSamples(dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	dst = make([]float32, 8)
	n, err = src.ReadSamples(dst)
	assert.Equal(t, 4, n)
	assert.ErrorIs(t, err, io.EOF)

	n, err = src.ReadSamples(dst)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestSourceErrors(t *testing.T) {
	t.Parallel()

	_, err := NewSource(&mockReader{sampleRate: 44100, channels: 1}, 12, false)
	assert.ErrorIs(t, err, ErrBitDepth)

	_, err = NewSource(&mockReader{sampleRate: 44100}, 16, false)
	assert.ErrorIs(t, err, ErrBitDepth)

	src, err := NewSource(&mockReader{sampleRate: 44100, channels: 1, fail: io.ErrUnexpectedEOF}, 16, false)
	require.NoError(t, err)
	_, err = src.ReadSamples(make([]float32, 4))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestBuffer(t *testing.T) {
	t.Parallel()

	b := &Buffer{}
	_, err := b.Write([]byte("hello world"))
	require.NoError(t, err)

	pos, err := b.Seek(6, io.SeekStart)
	require.NoError(t, err)
	assert.EqualValues(t, 6, pos)
	_, err = b.Write([]byte("there!"))
	require.NoError(t, err)
	assert.Equal(t, "hello there!", string(b.Bytes()))

	_, err = b.Seek(-6, io.SeekEnd)
	require.NoError(t, err)
	got, err := io.ReadAll(b)
	require.NoError(t, err)
	assert.Equal(t, "there!", string(got))

	_, err = b.Seek(-100, io.SeekCurrent)
	assert.ErrorIs(t, err, ErrNegativeOffset)
	_, err = b.Seek(0, 42)
	assert.Error(t, err)
}

func TestReadSeeker(t *testing.T) {
	t.Parallel()

	b := NewBuffer([]byte("abc"))
	rs, err := ReadSeeker(b)
	require.NoError(t, err)
	assert.Same(t, b, rs)

	rs, err = ReadSeeker(io.LimitReader(NewBuffer([]byte("abcdef")), 4))
	require.NoError(t, err)
	_, err = rs.Seek(2, io.SeekStart)
	require.NoError(t, err)
	rest, err := io.ReadAll(rs)
	require.NoError(t, err)
	assert.Equal(t, "cd", string(rest))
}
