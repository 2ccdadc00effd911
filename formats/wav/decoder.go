// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/ik5/dvdawm/audio"
	"github.com/ik5/dvdawm/formats/internal/pcm"
)

const (
	formatPCM        = 1
	formatExtensible = 0xfffe
)

type Decoder struct{}

// Decode reads the RIFF headers and returns a source positioned at the first
// sample. Non-seekable readers are buffered in memory.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.ReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	switch dec.WavAudioFormat {
	case formatPCM, formatExtensible:
	default:
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	src, err := pcm.NewSource(dec, int(dec.BitDepth), true)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return src, nil
}
