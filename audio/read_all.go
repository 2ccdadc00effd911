// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// ReadAll drains src into one interleaved slice. io.EOF is not an error.
func ReadAll(src Source, bufSize int) ([]float32, error) {
	ch := src.Channels()
	if ch < 1 {
		return nil, ErrInvalidChannels
	}
	bufSize = max(bufSize/ch, 1) * ch

	var out []float32
	buf := make([]float32, bufSize)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read samples: %w", err)
		}
	}
}
