// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts the go-audio integer decoders to audio.Source.
package pcm

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/dvdawm/utils"
)

var ErrBitDepth = errors.New("unsupported PCM bit depth")

// IntReader is the part of the go-audio wav and aiff decoders the source uses.
type IntReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer PCM from an IntReader to float32.
type Source struct {
	dec        IntReader
	sampleRate int
	channels   int
	bitDepth   int
	offset     int // subtracted before scaling (128 for unsigned 8-bit)
	intBuf     *goaudio.IntBuffer
	done       bool
}

// NewSource validates the stream layout. unsigned8 marks 8-bit data stored
// with a 128 offset, as in WAV.
func NewSource(dec IntReader, bitDepth int, unsigned8 bool) (*Source, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}

	f := dec.Format()
	if f == nil || f.NumChannels < 1 || f.SampleRate < 1 {
		return nil, fmt.Errorf("%w: missing format", ErrBitDepth)
	}

	s := &Source{
		dec:        dec,
		sampleRate: f.SampleRate,
		channels:   f.NumChannels,
		bitDepth:   bitDepth,
	}
	if bitDepth == 8 && unsigned8 {
		s.offset = 128
	}

	return s, nil
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BitDepth() int   { return s.bitDepth }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}

	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}
	want := len(dst) / s.channels * s.channels
	if want == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, want),
			Format:         s.dec.Format(),
			SourceBitDepth: s.bitDepth,
		}
	}
	s.intBuf.Data = s.intBuf.Data[:want]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("pcm: %w", err)
	}
	n -= n % s.channels

	for i, v := range s.intBuf.Data[:n] {
		dst[i] = utils.PCMToFloat(v-s.offset, s.bitDepth)
	}

	// the go-audio decoders report an empty read instead of io.EOF
	if n == 0 || err != nil {
		s.done = true
		return n, io.EOF
	}

	return n, nil
}
