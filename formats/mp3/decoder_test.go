// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/dvdawm/audio"
)

// mockMP3Reader serves PCM bytes in uneven pieces, like the real decoder.
type mockMP3Reader struct {
	data  []byte
	piece int
	err   error
}

func (m *mockMP3Reader) SampleRate() int { return 44100 }

func (m *mockMP3Reader) Read(p []byte) (int, error) {
	if len(m.data) == 0 {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}
	n := copy(p[:min(len(p), m.piece)], m.data)
	m.data = m.data[n:]

	return n, nil
}

func pcmBytes(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}

	return out
}

func TestSourceReadSamples(t *testing.T) {
	t.Parallel()

	src := &source{
		dec:        &mockMP3Reader{data: pcmBytes(0, 16384, -16384, -32768, 8192, 0), piece: 3},
		sampleRate: 44100,
	}
	assert.Equal(t, 2, src.Channels())

	got, err := audio.ReadAll(src, 4)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0, 0.5, -0.5, -1, 0.25, 0}, got, 1e-6)
}

func TestSourceDropsPartialFrame(t *testing.T) {
	t.Parallel()

	data := append(pcmBytes(100, 200), 0x01, 0x02, 0x03)
	src := &source{dec: &mockMP3Reader{data: data, piece: 64}, sampleRate: 44100}

	dst := make([]float32, 8)
	n, err := src.ReadSamples(dst)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestSourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	src := &source{dec: &mockMP3Reader{err: boom}, sampleRate: 44100}
	_, err := src.ReadSamples(make([]float32, 4))
	assert.ErrorIs(t, err, boom)
}

func TestDecodeInvalid(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrNotMP3File)
}
