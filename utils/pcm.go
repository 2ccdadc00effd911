// SPDX-License-Identifier: EPL-2.0

package utils

// PCMScale is the full-scale magnitude of a signed integer sample of the
// given bit depth (128 for 8-bit, 32768 for 16-bit, ...).
func PCMScale(bits int) float64 {
	return float64(int64(1) << (bits - 1))
}

// FloatToPCM clamps x to [-1, 1] and scales it to a signed sample of the given
// bit depth. Positive full scale maps to the largest value, not past it.
func FloatToPCM(x float32, bits int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	s := PCMScale(bits)
	v := float64(x) * s
	if v >= s {
		v = s - 1
	}

	return int(v)
}

// PCMToFloat maps a signed sample of the given bit depth to [-1, 1).
func PCMToFloat(v, bits int) float32 {
	return float32(float64(v) / PCMScale(bits))
}
