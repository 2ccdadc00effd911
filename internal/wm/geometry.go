// SPDX-License-Identifier: EPL-2.0

package wm

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnsupportedRate = errors.New("unsupported detector rate")

// round rounds half up for the non-negative quantities used in the layout math.
func round(x float64) int { return int(x + 0.5) }

func ceilLog2(x int) int { return int(math.Ceil(math.Log2(float64(x)))) }

// RunLengths returns the LF and HF correlation block lengths in samples for a
// detector (base) rate.
func RunLengths(rate int) (lf, hf int, err error) {
	switch rate {
	case 44100:
		return 42, 3 * 42, nil
	case 48000:
		return 44, 3 * 44, nil
	}

	return 0, 0, fmt.Errorf("%w: %d Hz", ErrUnsupportedRate, rate)
}

// BitsPerSecond is the chip rate of a band.
func BitsPerSecond(b Band) int {
	if b == HF {
		return hfBitsPerSec
	}

	return lfBitsPerSec
}

// LFEchoDelay returns the nominal LF echo delay in seconds for a payload kind.
func LFEchoDelay(p Payload) float64 {
	if p == OneBit {
		return echoDelay
	}

	return 2 * echoDelay
}

// HFDelay returns the HF echo delay in seconds carried by correlator word bit b.
func HFDelay(b int) float64 { return hfDelayCoeffs[HFDelays-1-b] }

// HeaderChips returns a copy of the 32-chip packet header.
func HeaderChips() []uint8 { return append([]uint8(nil), headerPattern[:]...) }

// PayloadPattern returns a copy of the payload spreading pattern.
func PayloadPattern(p Payload) []uint8 {
	if p == OneBit {
		return append([]uint8(nil), pattern1[:]...)
	}

	return append([]uint8(nil), pattern3[:]...)
}

// HeaderHops returns a copy of the HF header hop sequence (word bit positions).
func HeaderHops(p Payload) []uint8 {
	if p == OneBit {
		return append([]uint8(nil), hfHeaderHop1...)
	}

	return append([]uint8(nil), hfHeaderHop3...)
}

// PayloadHops returns a copy of the HF payload hop sequence.
func PayloadHops(p Payload) []uint8 {
	if p == OneBit {
		return append([]uint8(nil), hfHeaderHop1...)
	}

	return append([]uint8(nil), hfHop3...)
}

// lfGeometry is the delay search window of an LF pipeline: every integer delay
// within +-10% of the nominal one.
type lfGeometry struct {
	avg    int
	min    int
	max    int
	delays int
	bitLen float64 // correlation blocks per chip
}

func newLFGeometry(rate int, delaySec float64, run int) lfGeometry {
	avg := round(delaySec * float64(rate))
	g := lfGeometry{
		avg:    avg,
		min:    round(0.9 * float64(avg)),
		max:    round(1.1 * float64(avg)),
		bitLen: float64(rate) / float64(run) / lfBitsPerSec,
	}
	g.delays = g.max - g.min + 1

	return g
}

// chipBlocks returns the chip length in blocks when the stream plays with delay
// min+d instead of avg.
func (g lfGeometry) chipBlocks(d int) float64 {
	return g.bitLen * float64(g.min+d) / float64(g.avg)
}

func hfBitLen(rate, run int) float64 {
	return float64(rate) / float64(run) / hfBitsPerSec
}

// hfHistoryLen is the HF history size: the header span at the slowest tempo,
// rounded up to a power of two.
func hfHistoryLen(bitLen float64) int {
	return 1 << ceilLog2(round((HeaderLength-1)*bitLen*1.035)+2)
}
