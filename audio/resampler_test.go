// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ik5/dvdawm/internal/audiotest"
)

func TestResamplerLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		channels int
	}{
		{name: "upsample 32k to 48k", from: 32000, to: 48000, channels: 2},
		{name: "upsample 22.05k to 44.1k", from: 22050, to: 44100, channels: 1},
		{name: "downsample 64k to 48k", from: 64000, to: 48000, channels: 2},
		{name: "identity", from: 44100, to: 44100, channels: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			frames := tt.from / 2
			r := NewResampler(audiotest.NewSilentSource(tt.from, tt.channels, frames), tt.to)
			assert.Equal(t, tt.to, r.SampleRate())
			assert.Equal(t, tt.channels, r.Channels())

			out, err := ReadAll(r, 4096)
			require.NoError(t, err)
			require.Zero(t, len(out)%tt.channels)

			want := float64(frames) * float64(tt.to) / float64(tt.from)
			got := float64(len(out) / tt.channels)
			assert.InDelta(t, want, got, 2+float64(tt.to)/float64(tt.from))
		})
	}
}

func TestResamplerKeepsSineShape(t *testing.T) {
	t.Parallel()

	const freq = 440.0
	r := NewResampler(audiotest.NewSineSource(32000, 1, 32000, freq), 48000)
	out, err := ReadAll(r, 1000)
	require.NoError(t, err)

	for i := 100; i < len(out)-100; i += 37 {
		want := math.Sin(2 * math.Pi * freq * float64(i) / 48000)
		assert.InDelta(t, want, out[i], 0.01, "sample %d", i)
	}
}

func TestResamplerIdentityIsExact(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(44100, 2, 300)
	out, err := ReadAll(NewResampler(src, 44100), 64)
	require.NoError(t, err)
	require.Len(t, out, 600)

	for f := range 300 {
		assert.InDelta(t, float32(f)/300, out[2*f], 1e-6)
		assert.InDelta(t, float32(f)/300+0.1, out[2*f+1], 1e-6)
	}
}

func TestResamplerErrors(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(32000, 2, 10), 48000)
	_, err := r.ReadSamples(make([]float32, 3))
	assert.ErrorIs(t, err, ErrInvalidDstSize)

	boom := errors.New("boom")
	src := &audiotest.ErrSource{Rate: 32000, Chans: 1, Frames: 5000, Err: boom}
	_, err = ReadAll(NewResampler(src, 44100), 512)
	require.ErrorIs(t, err, boom)

	empty := NewResampler(audiotest.NewSilentSource(32000, 1, 0), 48000)
	out, err := ReadAll(empty, 16)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestResamplerNeverPanics(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		from := rapid.IntRange(8000, 96000).Draw(t, "from")
		to := rapid.IntRange(8000, 96000).Draw(t, "to")
		ch := rapid.IntRange(1, 6).Draw(t, "channels")
		frames := rapid.IntRange(0, 2000).Draw(t, "frames")
		buf := rapid.IntRange(1, 700).Draw(t, "buf")

		r := NewResampler(audiotest.NewSineSource(from, ch, frames, 1000), to)
		out, err := ReadAll(r, buf*ch)
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		if len(out)%ch != 0 {
			t.Fatalf("partial frame: %d samples for %d channels", len(out), ch)
		}
		for i, v := range out {
			if math.IsNaN(float64(v)) || v > 1.5 || v < -1.5 {
				t.Fatalf("sample %d out of range: %v", i, v)
			}
		}
	})
}
