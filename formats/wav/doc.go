// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes integer PCM WAV files through
// github.com/go-audio/wav.
//
// The decoder accepts 8, 16, 24 and 32-bit PCM (plain or extensible format
// tag) with any channel count and sample rate. Samples come out as float32 in
// [-1, 1):
//
//	src, err := wav.Decoder{}.Decode(file)
//
// Write is the counterpart used to produce test material:
//
//	err := wav.Write(file, 48000, 2, 24, samples)
//
// Files written at 44.1 or 48 kHz (or a 2x/4x multiple) with 16 bits or more
// keep an embedded watermark detectable.
package wav
