// SPDX-License-Identifier: EPL-2.0

// Package utils holds the scalar sample helpers shared by the resampler and
// the PCM codecs.
package utils
