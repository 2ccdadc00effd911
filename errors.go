// SPDX-License-Identifier: EPL-2.0

package dvdawm

import "errors"

var (
	ErrUnsupportedSampleRate = errors.New("unsupported sample rate")
	ErrOutOfMemory           = errors.New("detector footprint exceeds memory limit")
	ErrInvalidChannels       = errors.New("invalid channel count")
)
