// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Source is a stream of interleaved float32 PCM in [-1, 1].
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved samples and returns the number of
	// float32 values written (not frames). n == 0 with io.EOF ends the stream.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format keys and file extensions to decoders.
type Registry struct {
	codecs map[string]Decoder
	exts   map[string]string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		exts:   make(map[string]string),
		mtx:    &sync.Mutex{},
	}
}

// Register adds a decoder under format and binds the given file extensions
// (with or without the leading dot) to it.
func (r *Registry) Register(format string, d Decoder, exts ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
	for _, e := range exts {
		r.exts[normExt(e)] = format
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]

	return d, ok
}

// Lookup picks a decoder by the extension of path.
func (r *Registry) Lookup(path string) (string, Decoder, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	ext := normExt(filepath.Ext(path))
	format, ok := r.exts[ext]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	return format, r.codecs[format], nil
}

// Formats lists the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	slices.Sort(out)

	return out
}

func normExt(e string) string {
	return strings.ToLower(strings.TrimPrefix(e, "."))
}
