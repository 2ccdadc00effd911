// SPDX-License-Identifier: EPL-2.0

package wm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// despread feeds a packet carrying data through an assembler and returns the
// completion code and the chip index it completed on.
func despread(a *Assembler, c *Confidence, b Band, data func(k int) uint8) (code, chip int) {
	for k, p := range a.pattern {
		if code = a.check(p^data(k), c, b); code != 0 {
			return code, k
		}
	}

	return 0, -1
}

func threeBitData(bits3 [3]uint8, reserved [8]uint8) func(int) uint8 {
	return func(k int) uint8 {
		if k%2 == 1 {
			return bits3[((k-1)/2)%3]
		}

		return reserved[(k/2)%8]
	}
}

func TestAssemblerThreeBit(t *testing.T) {
	t.Parallel()

	c := newTestConfidence()
	a := newAssembler(ThreeBit)
	a.reset(0)

	code, chip := despread(&a, c, LF, threeBitData([3]uint8{1, 0, 0}, [8]uint8{}))
	assert.Equal(t, 7, code)
	assert.Equal(t, 2*field3.bits*field3.blocks-1, chip)
	assert.Equal(t, "100000000000", c.String())
	assert.Equal(t, "[ 1:+08 0:+08 0:+08 | 0:+05 0:+05 0:+05 0:+05 0:+05 0:+05 0:+05 0:+05 ]", a.Dump())
}

func TestAssemblerReservedByte(t *testing.T) {
	t.Parallel()

	c := newTestConfidence()
	a := newAssembler(ThreeBit)
	a.reset(0)

	code, _ := despread(&a, c, HF, threeBitData([3]uint8{0, 1, 1}, [8]uint8{1, 0, 1, 0, 0, 0, 0, 1}))
	assert.Equal(t, 7, code)
	assert.Equal(t, "001110100001", c.String())
}

func TestAssemblerOneBit(t *testing.T) {
	t.Parallel()

	for _, bit := range []uint8{0, 1} {
		c := newTestConfidence()
		a := newAssembler(OneBit)
		a.reset(0)

		code, chip := despread(&a, c, LF, func(int) uint8 { return bit })
		assert.Equal(t, 9, code)
		assert.Equal(t, OneBitChips-1, chip)
		assert.Equal(t, string('0'+rune(bit))+"1XXXXXXXXXX", c.String())
	}
}

func TestAssemblerNoiseFails(t *testing.T) {
	t.Parallel()

	c := newTestConfidence()
	a := newAssembler(ThreeBit)
	a.reset(0)

	// Alternating data lands every 3-bit tally mid-band.
	code, _ := despread(&a, c, LF, func(k int) uint8 { return uint8((k / 2) % 2) })
	assert.Equal(t, 1, code)
	assert.Equal(t, "XXXXXXXXXXXX", c.String())
	assert.True(t, strings.Contains(a.Dump(), "X:-"))
}

func TestAssemblerReset(t *testing.T) {
	t.Parallel()

	c := newTestConfidence()
	a := newAssembler(OneBit)
	a.reset(0)
	for range 10 {
		require.Zero(t, a.check(0, c, HF))
	}

	a.reset(4)
	assert.Equal(t, 4, a.key)
	assert.Zero(t, a.chip)
	assert.Equal(t, "[ 0:+35 ]", a.Dump())
}
