// SPDX-License-Identifier: EPL-2.0

package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfidence() *Confidence {
	c := NewConfidence()
	c.attach(LF, ThreeBit, 15)
	c.attach(LF, OneBit, 7)
	c.attach(HF, ThreeBit, Scanners)
	c.attach(HF, OneBit, Scanners)

	return c
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field bitField
		rank  int
		want  int
	}{
		{field: field3, rank: 0, want: 0},
		{field: field3, rank: 8, want: 0},
		{field: field3, rank: 9, want: -1},
		{field: field3, rank: 33, want: -1},
		{field: field3, rank: 34, want: 1},
		{field: field8, rank: 5, want: 0},
		{field: field8, rank: 10, want: 1},
		{field: field1, rank: 35, want: 0},
		{field: field1, rank: 119, want: 1},
		{field: field1, rank: 77, want: -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.field.classify(tt.rank), "%d bits, rank %d", tt.field.bits, tt.rank)
	}
}

func TestResolveDirect(t *testing.T) {
	t.Parallel()

	c := newTestConfidence()
	assert.Equal(t, "XXXXXXXXXXXX", c.String())

	require.True(t, c.resolve(LF, ThreeBit, field3, []uint8{42, 0, 0}, 0))
	assert.Equal(t, "1000XXXXXXXX", c.String())

	require.True(t, c.resolve(LF, ThreeBit, field8, []uint8{0, 15, 0, 15, 0, 0, 0, 15}, 0))
	assert.Equal(t, "100001010001", c.String())

	c.Reset()
	assert.Equal(t, "XXXXXXXXXXXX", c.String())
}

func TestResolveAveragesAmbiguousBits(t *testing.T) {
	t.Parallel()

	c := newTestConfidence()
	ranks := []uint8{0, 0, 31}

	assert.False(t, c.resolve(LF, ThreeBit, field3, ranks, 3))
	assert.Equal(t, "XXXXXXXXXXXX", c.String())

	// Another hypothesis key keeps its own sums.
	assert.False(t, c.resolve(LF, ThreeBit, field3, ranks, 4))

	assert.True(t, c.resolve(LF, ThreeBit, field3, ranks, 3))
	assert.Equal(t, "0001XXXXXXXX", c.String())
	assert.Zero(t, c.acc[LF][ThreeBit].sum(3, 2))
	assert.Zero(t, c.acc[LF][ThreeBit].sum(4, 2))
}

func TestResolveStaysUndecidedInsideBand(t *testing.T) {
	t.Parallel()

	c := newTestConfidence()
	for range 4 {
		assert.False(t, c.resolve(HF, OneBit, field1, []uint8{77}, 1))
	}
	assert.Equal(t, "XXXXXXXXXXXX", c.String())

	// The reserved byte is never averaged.
	assert.False(t, c.resolve(LF, ThreeBit, field8, []uint8{7, 0, 0, 0, 0, 0, 0, 0}, 0))
}

func TestResolveRejectsUnknownKey(t *testing.T) {
	t.Parallel()

	c := newTestConfidence()
	for range 3 {
		assert.False(t, c.resolve(HF, ThreeBit, field3, []uint8{20, 0, 0}, Scanners+1))
	}
	assert.False(t, c.resolve(HF, ThreeBit, field3, []uint8{20, 0, 0}, -1))
}

func TestCCIOrdering(t *testing.T) {
	t.Parallel()

	t.Run("one bit first", func(t *testing.T) {
		t.Parallel()

		c := newTestConfidence()
		require.True(t, c.resolve(LF, OneBit, field1, []uint8{154}, 0))
		assert.Equal(t, "11XXXXXXXXXX", c.String())

		require.True(t, c.resolve(LF, ThreeBit, field3, []uint8{0, 0, 42}, 0))
		assert.Equal(t, "0101XXXXXXXX", c.String())
	})

	t.Run("three bit first", func(t *testing.T) {
		t.Parallel()

		c := newTestConfidence()
		require.True(t, c.resolve(HF, ThreeBit, field3, []uint8{42, 0, 0}, 0))
		require.True(t, c.resolve(HF, OneBit, field1, []uint8{0}, 0))
		assert.Equal(t, "1100XXXXXXXX", c.String())

		// Later packets of a kind already seen do not rewrite the CCI.
		require.True(t, c.resolve(HF, ThreeBit, field3, []uint8{0, 42, 42}, 0))
		require.True(t, c.resolve(HF, OneBit, field1, []uint8{154}, 0))
		assert.Equal(t, "1100XXXXXXXX", c.String())
	})
}
