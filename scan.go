// SPDX-License-Identifier: EPL-2.0

package dvdawm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/dvdawm/audio"
)

const defaultChunkFrames = 4096

// ScanOptions controls Scan.
type ScanOptions struct {
	// Downmix averages all channels into one before detection.
	Downmix bool
	// ResampleTo converts the source to this rate first. Zero resamples only
	// unsupported rates, to 44100 for multiples of 11025 Hz and 48000 otherwise.
	ResampleTo int
	// ChunkFrames is the read size in frames (default 4096).
	ChunkFrames int
	// Track stamps every detection.
	Track int
	// Handler is called for every detection as it happens.
	Handler func(Detection)
	// Options are passed to New. A WithHandler among them is overridden.
	Options []Option
}

// ScanResult summarizes a finished scan.
type ScanResult struct {
	Detections []Detection
	Frames     int64
	Duration   time.Duration
	Channels   int
	SampleRate int // rate the detector ran at
	Resampled  bool
}

// Watermarked reports whether anything was detected.
func (r ScanResult) Watermarked() bool { return len(r.Detections) > 0 }

// Scan reads src to the end through a Detector. The source is not closed.
// Cancelling ctx stops the scan between chunks and returns the partial result
// with ctx's error.
func Scan(ctx context.Context, src audio.Source, opts ScanOptions) (ScanResult, error) {
	var res ScanResult

	in, err := prepare(src, opts, &res)
	if err != nil {
		return res, err
	}

	handler := func(d Detection) {
		res.Detections = append(res.Detections, d)
		if opts.Handler != nil {
			opts.Handler(d)
		}
	}
	detOpts := append(append([]Option(nil), opts.Options...), WithHandler(handler))

	det, err := New(res.Channels, res.SampleRate, detOpts...)
	if err != nil {
		return res, err
	}
	det.SetTrack(opts.Track)

	frames := opts.ChunkFrames
	if frames <= 0 {
		frames = defaultChunkFrames
	}
	buf := make([]float32, frames*res.Channels)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		n, err := in.ReadSamples(buf)
		if n > 0 {
			det.Run(buf[:n])
			res.Frames += int64(n / res.Channels)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("scan: %w", err)
		}
	}

	res.Duration = time.Duration(float64(res.Frames) / float64(res.SampleRate) * float64(time.Second))

	return res, nil
}

func prepare(src audio.Source, opts ScanOptions, res *ScanResult) (audio.Source, error) {
	if src.Channels() < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, src.Channels())
	}

	rate := src.SampleRate()
	target := opts.ResampleTo
	if target == 0 && !SupportedSampleRate(rate) {
		target = 48000
		if rate%11025 == 0 {
			target = 44100
		}
	}
	if target != 0 && !SupportedSampleRate(target) {
		return nil, fmt.Errorf("%w: resample target %d Hz", ErrUnsupportedSampleRate, target)
	}

	in := src
	if target != 0 && target != rate {
		in = audio.NewResampler(in, target)
		res.Resampled = true
	}
	if opts.Downmix && in.Channels() > 1 {
		in = audio.NewMonoMixer(in)
	}

	res.Channels = in.Channels()
	res.SampleRate = in.SampleRate()

	return in, nil
}
