// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Signed integer PCM at 8, 16, 24 and 32 bits is supported, with any channel
// count and sample rate:
//
//	src, err := aiff.Decoder{}.Decode(file)
//
// AIFF-C compressed variants are rejected by go-audio before a source is
// built.
package aiff
