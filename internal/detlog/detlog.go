// SPDX-License-Identifier: EPL-2.0

// Package detlog appends detections to daily CSV files.
//
// File names come from a strftime pattern evaluated at write time, so a
// pattern such as "dvdawm-%Y-%m-%d.csv" starts a new file every day. A header
// row is written whenever a file is created empty.
package detlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/ik5/dvdawm/internal/wm"
)

var ErrClosed = errors.New("detection log closed")

// Header is the first row of every file.
var Header = []string{
	"logged", "source", "id", "time", "track", "channel", "band", "payload", "cci", "tempo", "location", "rank",
}

// Log is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	dir     string
	pattern *strftime.Strftime
	now     func() time.Time
	path    string
	file    *os.File
	w       *csv.Writer
	closed  bool
}

// Option configures a Log.
type Option func(*Log)

// WithClock replaces time.Now for file naming and the logged column.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New creates dir if needed. No file is opened before the first write.
func New(dir, pattern string, opts ...Option) (*Log, error) {
	p, err := strftime.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("detection log pattern %q: %w", pattern, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create detection log dir: %w", err)
	}

	l := &Log{dir: dir, pattern: p, now: time.Now}
	for _, o := range opts {
		o(l)
	}

	return l, nil
}

// Path returns the file the next write goes to.
func (l *Log) Path() string {
	return filepath.Join(l.dir, l.pattern.FormatString(l.now()))
}

// Write appends one detection found in source.
func (l *Log) Write(source string, d wm.Detection) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	now := l.now()
	if err := l.rotate(filepath.Join(l.dir, l.pattern.FormatString(now))); err != nil {
		return err
	}

	if err := l.w.Write(Row(now, source, d)); err != nil {
		return fmt.Errorf("write detection log: %w", err)
	}
	l.w.Flush()

	return l.w.Error()
}

// Row renders one CSV record.
func Row(logged time.Time, source string, d wm.Detection) []string {
	return []string{
		logged.Format(time.RFC3339),
		source,
		d.ID(),
		wm.FormatTime(d.Time),
		strconv.Itoa(d.Track),
		strconv.Itoa(d.Channel + 1),
		d.Band.String(),
		d.Payload.String(),
		d.CCI,
		strconv.FormatFloat(d.Tempo, 'f', 3, 64),
		strconv.Itoa(d.Location),
		strconv.Itoa(d.Rank),
	}
}

func (l *Log) rotate(path string) error {
	if path == l.path && l.file != nil {
		return nil
	}
	if err := l.closeFile(); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open detection log: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat detection log: %w", err)
	}

	l.path, l.file, l.w = path, f, csv.NewWriter(f)
	if st.Size() == 0 {
		if err := l.w.Write(Header); err != nil {
			return fmt.Errorf("write detection log header: %w", err)
		}
	}

	return nil
}

func (l *Log) closeFile() error {
	if l.file == nil {
		return nil
	}

	l.w.Flush()
	werr := l.w.Error()
	cerr := l.file.Close()
	l.file, l.w, l.path = nil, nil, ""
	if werr != nil {
		return fmt.Errorf("flush detection log: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("close detection log: %w", cerr)
	}

	return nil
}

// Close flushes and closes the current file. Later writes fail with ErrClosed.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true

	return l.closeFile()
}
