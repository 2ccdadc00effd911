// SPDX-License-Identifier: EPL-2.0

package wm

// bitField describes one group of payload bits and how its hit tallies are
// classified.
type bitField struct {
	bits    int
	blocks  int // tallies per bit
	zeroMax int // tally <= zeroMax reads 0, tally >= blocks-zeroMax reads 1
	// free and corr set the averaged thresholds once a bit has been ambiguous
	// over at least two packets. Fields without them are never averaged.
	free int
	corr int
}

var (
	field3 = bitField{bits: 3, blocks: 42, zeroMax: 8, free: 15, corr: -7}
	field8 = bitField{bits: 8, blocks: 15, zeroMax: 5}
	field1 = bitField{bits: 1, blocks: 154, zeroMax: 35, free: 56, corr: -21}
)

func (f bitField) averaged() bool { return f.free != 0 }

// classify maps a tally to 0, 1 or -1 (ambiguous).
func (f bitField) classify(rank int) int {
	switch {
	case rank <= f.zeroMax:
		return 0
	case rank >= f.blocks-f.zeroMax:
		return 1
	}

	return -1
}

// accumulator sums ambiguous tallies per hypothesis key. Each key owns bits+1
// cells: the per-bit sums and the number of packets added.
type accumulator struct {
	width int
	cells []int
}

func newAccumulator(bits, keys int) *accumulator {
	return &accumulator{
		width: bits + 1,
		cells: make([]int, (bits+1)*keys),
	}
}

func (a *accumulator) add(key int, ranks []uint8) (checks int, ok bool) {
	base := a.width * key
	if key < 0 || base+a.width > len(a.cells) {
		return 0, false
	}
	for i, r := range ranks {
		a.cells[base+i] += int(r)
	}
	a.cells[base+a.width-1]++

	return a.cells[base+a.width-1], true
}

func (a *accumulator) sum(key, bit int) int { return a.cells[a.width*key+bit] }

func (a *accumulator) reset() { clear(a.cells) }

const (
	seen3 = 1 << iota
	seen1
)

// CCILength is the length of the rendered CCI string.
const CCILength = 12

// Confidence is the per-channel decision state: the accumulators of every
// pipeline and the decoded CCI characters. Positions 0-3 hold C3 C2 C1 C0,
// positions 4-11 the reserved byte.
type Confidence struct {
	acc  [2][2]*accumulator
	cci  [CCILength]byte
	seen uint8
}

// NewConfidence returns a state with every CCI position unresolved.
func NewConfidence() *Confidence {
	c := &Confidence{}
	c.clearCCI()

	return c
}

// attach sizes the accumulator of one pipeline for its number of tempo
// locations. Key 0 is the re-timed nominal location, keys 1..locations the
// locations themselves.
func (c *Confidence) attach(b Band, p Payload, locations int) {
	bits := field3.bits
	if p == OneBit {
		bits = field1.bits
	}
	c.acc[b][p] = newAccumulator(bits, locations+1)
}

// String renders the 12 CCI characters.
func (c *Confidence) String() string { return string(c.cci[:]) }

// Reset clears the accumulators and the CCI.
func (c *Confidence) Reset() {
	for b := range c.acc {
		for p := range c.acc[b] {
			if c.acc[b][p] != nil {
				c.acc[b][p].reset()
			}
		}
	}
	c.clearCCI()
}

func (c *Confidence) clearCCI() {
	for i := range c.cci {
		c.cci[i] = 'X'
	}
	c.seen = 0
}

// resolve decides the bits of a completed field. Unambiguous tallies decide
// directly. Ambiguous ones are added to the accumulator of the hypothesis key
// and decided against the averaged thresholds once two packets are in. On
// success the CCI is updated and the accumulator of the pipeline cleared.
func (c *Confidence) resolve(b Band, p Payload, f bitField, ranks []uint8, key int) bool {
	var out [8]int
	ambiguous := false
	for i := range f.bits {
		out[i] = f.classify(int(ranks[i]))
		if out[i] < 0 {
			ambiguous = true
		}
	}

	acc := c.acc[b][p]
	if ambiguous {
		if !f.averaged() || acc == nil {
			return false
		}

		checks, ok := acc.add(key, ranks[:f.bits])
		if !ok || checks < 2 {
			return false
		}

		// Bits decided by this packet's tallies stand. Only the ambiguous ones are
		// re-decided from the sums, to either value.
		lo := checks*f.free + f.corr
		hi := checks*f.blocks - lo
		for i := range f.bits {
			if out[i] >= 0 {
				continue
			}
			switch s := acc.sum(key, i); {
			case s <= lo:
				out[i] = 0
			case s >= hi:
				out[i] = 1
			default:
				return false
			}
		}
	}

	if f.averaged() && acc != nil {
		acc.reset()
	}
	c.set(p, f.bits, out[:f.bits])

	return true
}

func (c *Confidence) set(p Payload, bits int, v []int) {
	ch := func(b int) byte { return '0' + byte(b) }

	switch {
	case p == ThreeBit && bits == 8:
		for i, b := range v {
			c.cci[4+i] = ch(b)
		}
	case p == ThreeBit:
		if c.seen&seen3 != 0 {
			return
		}
		c.seen |= seen3
		c.cci[1] = '0'
		if c.seen&seen1 != 0 {
			c.cci[1] = '1'
		}
		c.cci[0] = ch(v[0])
		c.cci[2] = ch(v[1])
		c.cci[3] = ch(v[2])
	case p == OneBit:
		if c.seen&seen1 != 0 {
			return
		}
		c.seen |= seen1
		c.cci[1] = '1'
		if c.seen&seen3 == 0 {
			c.cci[0] = ch(v[0])
			c.cci[2] = 'X'
			c.cci[3] = 'X'
		}
	}
}
