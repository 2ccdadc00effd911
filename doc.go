// SPDX-License-Identifier: EPL-2.0

// Package dvdawm detects the DVD-Audio copy-control watermark in PCM audio.
//
// The watermark is an echo-hiding signal carried in two bands: an LF band
// (4.3-7.7 kHz, 75 chips per second) and an HF band (8.3-15.7 kHz, 50 chips
// per second). Each band carries either a 3-bit payload with an 8-bit
// extension or a 1-bit payload, so every channel runs four independent
// pipelines. A completed packet yields a Detection with its stream time, the
// decoded CCI string and the tempo offset it was found at.
//
// # Supported Formats
//
// The detector runs at 44.1 or 48 kHz and accepts 2x and 4x multiples, which
// it decimates internally. Scan resamples anything else. Decoders live in the
// formats subpackages:
//   - WAV (8/16/24/32-bit PCM) via formats/wav
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// # Quick Start
//
//	src, _ := wav.Decoder{}.Decode(file)
//	res, err := dvdawm.Scan(ctx, src, dvdawm.ScanOptions{})
//	for _, d := range res.Detections {
//	    fmt.Println(d)
//	}
//
// # Streaming
//
// For live input, feed interleaved samples to a Detector:
//
//	det, err := dvdawm.New(2, 96000, dvdawm.WithHandler(func(d dvdawm.Detection) {
//	    log.Info("watermark", "cci", d.CCI)
//	}))
//	det.Run(samples)
//
// A Session wraps a Detector for player integration: it follows format
// changes, seeks and track boundaries.
//
// A Detector is not safe for concurrent use. Scan one stream per goroutine.
package dvdawm
