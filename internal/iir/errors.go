// SPDX-License-Identifier: EPL-2.0

package iir

import "errors"

var (
	ErrUnsupportedRate = errors.New("unsupported sample rate")
)
