// SPDX-License-Identifier: EPL-2.0

// Package audio holds the PCM plumbing that feeds the watermark detector:
// the Source interface every decoder implements, a decoder Registry keyed by
// format and file extension, and the stream adapters used before detection.
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 in [-1, 1]. ReadSamples returns io.EOF
// (possibly together with a final batch) when the stream ends.
//
// # Adapters
//
// The detector only accepts 44.1 kHz, 48 kHz and their 2x/4x multiples.
// Anything else goes through a Resampler first:
//
//	rs := audio.NewResampler(src, 48000)
//
// MonoMixer averages all channels into one, for material where the
// watermark is spread over a stereo pair:
//
//	mono := audio.NewMonoMixer(src)
//
// SliceSource wraps samples already in memory and ReadAll drains any Source.
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{}, ".wav", ".wave")
//	format, dec, err := registry.Lookup("take1.WAV")
package audio
