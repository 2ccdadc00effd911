// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/dvdawm/formats/internal/pcm"
	"github.com/ik5/dvdawm/utils"
)

const writeChunk = 1 << 14

// Write encodes interleaved float samples as integer PCM (8, 16, 24 or 32
// bits). A writer that cannot seek is fed from an in-memory copy.
func Write(w io.Writer, sampleRate, channels, bitDepth int, samples []float32) error {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bit", ErrUnsupportedEncoding, bitDepth)
	}
	if channels < 1 || sampleRate < 1 || len(samples)%channels != 0 {
		return fmt.Errorf("%w: %d samples, %d channels at %d Hz", ErrInvalidLayout,
			len(samples), channels, sampleRate)
	}

	ws, ok := w.(io.WriteSeeker)
	var mem *pcm.Buffer
	if !ok {
		mem = &pcm.Buffer{}
		ws = mem
	}

	enc := wav.NewEncoder(ws, sampleRate, bitDepth, channels, formatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, 0, writeChunk*channels),
		SourceBitDepth: bitDepth,
	}

	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	for start := 0; start < len(samples); start += writeChunk * channels {
		end := min(start+writeChunk*channels, len(samples))
		buf.Data = buf.Data[:0]
		for _, x := range samples[start:end] {
			buf.Data = append(buf.Data, utils.FloatToPCM(x, bitDepth)+offset)
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("wav: encode: %w", err)
		}
	}
	if len(samples) == 0 {
		buf.Data = buf.Data[:0]
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("wav: encode: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav: close: %w", err)
	}

	if mem != nil {
		if _, err := w.Write(mem.Bytes()); err != nil {
			return fmt.Errorf("wav: %w", err)
		}
	}

	return nil
}
