// SPDX-License-Identifier: EPL-2.0

package dvdawm

import (
	"io"

	"github.com/charmbracelet/log"
)

type settings struct {
	logger   *log.Logger
	trace    bool
	handler  func(Detection)
	memLimit uint64
}

func defaultSettings() settings {
	return settings{logger: log.New(io.Discard)}
}

// Option configures a Detector.
type Option func(*settings)

// WithLogger sets the logger. Detections are logged at info level, assembler
// tallies at debug level.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTrace attaches the per-assembler tally dump to every detection.
func WithTrace(on bool) Option {
	return func(s *settings) { s.trace = on }
}

// WithHandler registers a callback invoked synchronously from Run for every
// detection.
func WithHandler(fn func(Detection)) Option {
	return func(s *settings) { s.handler = fn }
}

// WithMemoryLimit makes New fail with ErrOutOfMemory when the estimated
// footprint exceeds limit bytes. Zero disables the check.
func WithMemoryLimit(limit uint64) Option {
	return func(s *settings) { s.memLimit = limit }
}
