// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams through
// github.com/jfreymuth/oggvorbis. The decoder already produces float32, so
// samples are passed through without conversion.
package vorbis
