// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III streams through
// github.com/hajimehoshi/go-mp3. Output is always stereo; mono files come out
// with both channels equal.
//
// Lossy coding smears the 4-8 kHz and 8-16 kHz bands the watermark lives in,
// so only high bitrate material tends to keep it detectable.
package mp3
