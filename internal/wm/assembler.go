// SPDX-License-Identifier: EPL-2.0

package wm

import (
	"fmt"
	"strings"
)

// scheme is the payload-specific part of an assembler, picked once per pipeline.
type scheme interface {
	reset()
	// tally records one chip and reports whether the packet is complete.
	tally(hit bool) bool
	// resolve decides the completed packet and returns its completion code.
	resolve(c *Confidence, b Band, key int) int
	dump(sb *strings.Builder)
}

// threeBit alternates chips between the 3-bit field and the 8-bit reserved
// field, starting with the 8-bit one. The 8-bit field stops counting after its
// 15 blocks; completion follows block 42 of the 3-bit field.
type threeBit struct {
	r3     [3]uint8
	i3, b3 int
	r8     [8]uint8
	i8, b8 int
	odd    bool
}

func (s *threeBit) reset() {
	s.r3 = [3]uint8{}
	s.r8 = [8]uint8{}
	s.i3, s.b3 = 0, 0
	s.i8, s.b8 = 0, 0
	s.odd = false
}

func (s *threeBit) tally(hit bool) bool {
	if s.odd {
		if hit {
			s.r3[s.i3]++
		}
		s.i3++
		if s.i3 == field3.bits {
			s.i3 = 0
			s.b3++
			if s.b3 == field3.blocks {
				return true
			}
		}
	} else if s.b8 < field8.blocks {
		if hit {
			s.r8[s.i8]++
		}
		s.i8++
		if s.i8 == field8.bits {
			s.i8 = 0
			s.b8++
		}
	}
	s.odd = !s.odd

	return false
}

func (s *threeBit) resolve(c *Confidence, b Band, key int) int {
	code := 1
	if c.resolve(b, ThreeBit, field3, s.r3[:], key) {
		code |= 2
		if c.resolve(b, ThreeBit, field8, s.r8[:], key) {
			code |= 4
		}
	}

	return code
}

func (s *threeBit) dump(sb *strings.Builder) {
	dumpField(sb, field3, s.r3[:])
	sb.WriteString(" |")
	dumpField(sb, field8, s.r8[:])
}

// oneBit tallies every chip into a single bit.
type oneBit struct {
	r      [1]uint8
	blocks int
}

func (s *oneBit) reset() {
	s.r[0] = 0
	s.blocks = 0
}

func (s *oneBit) tally(hit bool) bool {
	if hit {
		s.r[0]++
	}
	s.blocks++

	return s.blocks == field1.blocks
}

func (s *oneBit) resolve(c *Confidence, b Band, key int) int {
	if c.resolve(b, OneBit, field1, s.r[:], key) {
		return 1<<3 | 1
	}

	return 1
}

func (s *oneBit) dump(sb *strings.Builder) { dumpField(sb, field1, s.r[:]) }

// dumpField writes " b:+nn" per bit: the decided character and the distance of
// the tally from the nearest threshold, negative inside the ambiguous band.
func dumpField(sb *strings.Builder, f bitField, ranks []uint8) {
	mid := f.blocks / 2
	oneMin := f.blocks - f.zeroMax
	for _, r := range ranks {
		rank := int(r)
		base := f.zeroMax
		if rank > mid {
			base = oneMin
		}
		sign := 1
		if base < mid {
			sign = -1
		}
		ch := byte('X')
		switch f.classify(rank) {
		case 0:
			ch = '0'
		case 1:
			ch = '1'
		}
		fmt.Fprintf(sb, " %c:%+03d", ch, sign*(rank-base))
	}
}

// Assembler de-spreads one lagged view of the chip stream. Key identifies the
// tempo hypothesis that allocated the slot, for confidence accumulation.
type Assembler struct {
	pattern []uint8
	scheme  scheme
	chip    int
	key     int
}

func newAssembler(p Payload) Assembler {
	if p == OneBit {
		return Assembler{pattern: pattern1[:], scheme: &oneBit{}}
	}

	return Assembler{pattern: pattern3[:], scheme: &threeBit{}}
}

func (a *Assembler) reset(key int) {
	a.scheme.reset()
	a.chip = 0
	a.key = key
}

// check feeds one correlation bit. It returns 0 while the packet is in progress
// and the completion code once it is done.
func (a *Assembler) check(bit uint8, c *Confidence, b Band) int {
	if a.chip >= len(a.pattern) {
		return 1
	}
	if a.scheme.tally(a.pattern[a.chip]^bit == 1) {
		return a.scheme.resolve(c, b, a.key)
	}
	a.chip++

	return 0
}

// Dump renders the per-bit tallies.
func (a *Assembler) Dump() string {
	var sb strings.Builder
	sb.WriteByte('[')
	a.scheme.dump(&sb)
	sb.WriteString(" ]")

	return sb.String()
}
