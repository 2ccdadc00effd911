// SPDX-License-Identifier: EPL-2.0

package dvdawm

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/dvdawm/internal/synth"
	"github.com/ik5/dvdawm/internal/wm"
)

type recorder struct {
	mu   sync.Mutex
	dets []Detection
}

func (r *recorder) add(d Detection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dets = append(r.dets, d)
}

func (r *recorder) all() []Detection {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Detection(nil), r.dets...)
}

func feed(t *testing.T, s *Session, data []float32, channels, rate int) int {
	t.Helper()

	total := 0
	step := 4096 * channels
	for start := 0; start < len(data); start += step {
		n, err := s.Process(Chunk{Samples: data[start:min(start+step, len(data))], Channels: channels, SampleRate: rate})
		require.NoError(t, err)
		total += n
	}

	return total
}

func TestSessionDetectsAndFlags(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	s := NewSession(WithHandler(rec.add))
	s.SetTrack(4)
	assert.False(t, s.Watermarked())
	assert.Nil(t, s.Detector())

	data := lfStream(synth.NewLF(44100, wm.ThreeBit), lf3Packet())
	assert.Equal(t, 1, feed(t, s, data, 1, 44100))
	assert.True(t, s.Watermarked())

	got := rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Track)
	assert.Equal(t, "100000000000", got[0].CCI)

	// the CCI is consumed by the chunk that reported it
	assert.Equal(t, "XXXXXXXXXXXX", s.Detector().CCI(0))
}

func TestSessionHandlerMayCallBack(t *testing.T) {
	t.Parallel()

	var (
		s     *Session
		calls int
		flag  bool
		det   *Detector
	)
	s = NewSession(WithHandler(func(Detection) {
		calls++
		flag = s.Watermarked()
		det = s.Detector()
		s.Seek(30 * time.Second)
	}))

	data := lfStream(synth.NewLF(44100, wm.ThreeBit), lf3Packet())
	assert.Equal(t, 1, feed(t, s, data, 1, 44100))
	assert.Equal(t, 1, calls)
	assert.True(t, flag)
	assert.NotNil(t, det)
}

func TestSessionEndOfTrackRetimes(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	s := NewSession(WithHandler(rec.add))
	data := lfStream(synth.NewLF(48000, wm.ThreeBit), lf3Packet())
	stereo := synth.Mix(data, make([]float32, len(data)))

	assert.Equal(t, 1, feed(t, s, stereo, 2, 48000))
	assert.True(t, s.Watermarked())
	s.EndOfTrack()
	s.SetTrack(2)

	_, err := s.Process(Chunk{Samples: stereo[:2], Channels: 2, SampleRate: 48000})
	require.NoError(t, err)
	assert.False(t, s.Watermarked())
	assert.Equal(t, time.Second/48000, s.Detector().Position())

	feed(t, s, stereo[2:], 2, 48000)
	got := rec.all()
	require.Len(t, got, 2)
	assert.Zero(t, got[0].Track)
	last := got[1]
	assert.Equal(t, 2, last.Track)
	assert.Equal(t, 0, last.Channel)
	assert.InDelta(t, 1.001, last.Time.Seconds(), 0.01)
}

func TestSessionSeek(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	s := NewSession(WithHandler(rec.add))
	data := lfStream(synth.NewLF(44100, wm.ThreeBit), lf3Packet())

	_, err := s.Process(Chunk{Samples: make([]float32, 100), Channels: 1, SampleRate: 44100})
	require.NoError(t, err)

	s.Seek(90 * time.Second)
	feed(t, s, data, 1, 44100)

	got := rec.all()
	require.Len(t, got, 1)
	assert.InDelta(t, 91.00095, got[0].Time.Seconds(), 0.005)
	assert.Equal(t, "[00:01:31.00095] - Watermark on ch 1 - LF 3/8 BIT [100000000000] - Tempo +0.000", got[0].String())
}

func TestSessionFormatChanges(t *testing.T) {
	t.Parallel()

	var logs strings.Builder
	s := NewSession(WithLogger(log.New(&logs)))

	_, err := s.Process(Chunk{Samples: make([]float32, 64), Channels: 2, SampleRate: 44100})
	require.NoError(t, err)
	first := s.Detector()
	require.NotNil(t, first)
	assert.Equal(t, 2, first.Channels())

	// unsupported rates are reported once and skipped
	for range 3 {
		n, err := s.Process(Chunk{Samples: make([]float32, 64), Channels: 2, SampleRate: 32000})
		assert.Zero(t, n)
		assert.ErrorIs(t, err, ErrUnsupportedSampleRate)
	}
	assert.Nil(t, s.Detector())
	assert.Equal(t, 1, strings.Count(logs.String(), "does not support sample rate"))

	_, err = s.Process(Chunk{Samples: make([]float32, 64), Channels: 1, SampleRate: 96000})
	require.NoError(t, err)
	assert.NotSame(t, first, s.Detector())
	assert.Equal(t, 96000, s.Detector().SampleRate())

	n, err := s.Process(Chunk{Channels: 0, SampleRate: 96000})
	assert.Zero(t, n)
	assert.ErrorIs(t, err, ErrInvalidChannels)
}
