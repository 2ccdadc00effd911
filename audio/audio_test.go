// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/dvdawm/internal/audiotest"
)

type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(io.Reader) (Source, error) {
	return audiotest.NewSilentSource(44100, 2, 100), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	wavDec := &mockDecoder{name: "wav"}
	mp3Dec := &mockDecoder{name: "mp3"}
	registry.Register("wav", wavDec, ".wav", "WAVE")
	registry.Register("mp3", mp3Dec, "mp3")

	got, ok := registry.Get("wav")
	require.True(t, ok)
	assert.Same(t, wavDec, got)

	_, ok = registry.Get("flac")
	assert.False(t, ok)

	assert.Equal(t, []string{"mp3", "wav"}, registry.Formats())
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	wavDec := &mockDecoder{name: "wav"}
	registry.Register("wav", wavDec, ".wav", ".wave")

	tests := []struct {
		path    string
		format  string
		wantErr bool
	}{
		{path: "take1.wav", format: "wav"},
		{path: "/music/TAKE2.WAV", format: "wav"},
		{path: "a.b.wave", format: "wav"},
		{path: "track.flac", wantErr: true},
		{path: "noext", wantErr: true},
	}

	for _, tt := range tests {
		format, dec, err := registry.Lookup(tt.path)
		if tt.wantErr {
			assert.True(t, errors.Is(err, ErrUnknownFormat), tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.format, format)
		assert.Same(t, wavDec, dec)
	}
}

func TestSliceSourceAndReadAll(t *testing.T) {
	t.Parallel()

	data := []float32{1, 2, 3, 4, 5, 6, 7}
	src := NewSliceSource(48000, 2, data)
	assert.Equal(t, 48000, src.SampleRate())
	assert.Equal(t, 2, src.Channels())

	// odd buffer sizes are trimmed to whole frames
	buf := make([]float32, 3)
	n, err := src.ReadSamples(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rest, err := ReadAll(src, 5)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4, 5, 6}, rest)

	n, err = src.ReadSamples(buf)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadAllPropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := &audiotest.ErrSource{Rate: 44100, Chans: 2, Frames: 10, Err: boom}

	out, err := ReadAll(src, 8)
	require.ErrorIs(t, err, boom)
	assert.Len(t, out, 20)
}
