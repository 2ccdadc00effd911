// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"

	"github.com/ik5/dvdawm/audio"
	"github.com/ik5/dvdawm/formats/internal/pcm"
)

type Decoder struct{}

// Decode parses the COMM chunk and returns a source over the sound data.
// go-audio needs to seek, so plain readers are buffered in memory.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.ReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	if dec.Format() == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	src, err := pcm.NewSource(dec, int(dec.BitDepth), false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}

	return src, nil
}
