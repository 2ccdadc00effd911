// SPDX-License-Identifier: EPL-2.0

package dvdawm

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Chunk is one block of interleaved playback audio.
type Chunk struct {
	Samples    []float32
	Channels   int
	SampleRate int
}

// Session follows a playback stream the way a player DSP would: it builds a
// Detector for the current stream format, re-anchors time on seeks and track
// changes, and remembers whether anything was watermarked. It is safe for
// concurrent use; notifications may come from another goroutine than Process.
type Session struct {
	mu   sync.Mutex
	opts []Option
	log  *log.Logger

	det      *Detector
	channels int
	rate     int
	initErr  error

	trackEnded   bool
	trackChanged bool
	track        int
	seek         *time.Duration
	watermarked  bool

	handler func(Detection)
	pending []Detection
}

// NewSession creates an idle session. The options are applied to every
// Detector it builds. A WithHandler callback runs from Process after the
// session lock is released, so it may call back into the session.
func NewSession(opts ...Option) *Session {
	set := defaultSettings()
	for _, o := range opts {
		o(&set)
	}

	s := &Session{log: set.logger, handler: set.handler}
	s.opts = append(append([]Option(nil), opts...), WithHandler(s.collect))

	return s
}

// collect runs under s.mu, from Detector.Run.
func (s *Session) collect(d Detection) {
	if s.handler != nil {
		s.pending = append(s.pending, d)
	}
}

// Process runs one chunk. A format the detector cannot handle is reported once
// per format change and its chunks are skipped with the same error.
func (s *Session) Process(c Chunk) (int, error) {
	s.mu.Lock()
	n, err := s.process(c)
	found := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, d := range found {
		s.handler(d)
	}

	return n, err
}

func (s *Session) process(c Chunk) (int, error) {
	if c.Channels != s.channels || c.SampleRate != s.rate {
		s.channels, s.rate = c.Channels, c.SampleRate
		s.det, s.initErr = nil, nil
		s.watermarked = false
		s.init()
	}
	if s.det == nil {
		return 0, s.initErr
	}

	if s.trackEnded {
		s.det.Retime(0)
		s.watermarked = false
		s.trackEnded = false
	}
	if s.seek != nil {
		s.det.Retime(*s.seek)
		s.watermarked = false
		s.seek = nil
	}
	if s.trackChanged {
		s.det.SetTrack(s.track)
		s.trackChanged = false
	}

	n := s.det.Run(c.Samples)
	if n > 0 {
		s.det.ResetConfidence()
		s.watermarked = true
	}

	return n, nil
}

func (s *Session) init() {
	s.log.Info("initializing watermark detector", "channels", s.channels, "rate", s.rate)

	det, err := New(s.channels, s.rate, s.opts...)
	switch {
	case err == nil:
		s.det = det
		s.trackChanged = true
	case errors.Is(err, ErrUnsupportedSampleRate):
		s.log.Warn("watermark detector does not support sample rate", "rate", s.rate)
	case errors.Is(err, ErrOutOfMemory):
		s.log.Error("watermark detector is out of memory", "err", err)
	default:
		s.log.Warn("watermark detector init failed", "err", err)
	}
	s.initErr = err
}

// EndOfTrack makes the next chunk start a fresh track at time zero.
func (s *Session) EndOfTrack() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trackEnded = true
	s.trackChanged = true
}

// Seek makes the next chunk start at pos.
func (s *Session) Seek(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seek = &pos
}

// SetTrack sets the track number stamped on detections from the next chunk on.
func (s *Session) SetTrack(track int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.track = track
	s.trackChanged = true
}

// Watermarked reports whether a packet was found since the last format
// change, track end or seek.
func (s *Session) Watermarked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.watermarked
}

// Detector returns the detector for the current format, or nil.
func (s *Session) Detector() *Detector {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.det
}
