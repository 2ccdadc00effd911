// SPDX-License-Identifier: EPL-2.0

package wm

import (
	"math"
	"math/bits"
)

// headerDetector scores every tempo location against the 32-chip header after
// each block. A rank of 6-k means the last 32 chips differ from the header in k
// positions; 0 means no candidate.
type headerDetector interface {
	run()
	reset()
	ranks() []int
}

func headerRank(diff int) int {
	if diff < headerMaxError {
		return headerMaxError - diff
	}

	return 0
}

type lfHeaderLocation struct {
	regs    []uint32 // one shift register per block phase within a chip
	idx     int
	corr    int // extra-block correction per block, in 1/10000 units
	corrIdx int
}

// lfHeader looks for the header on every LF delay. A chip spans a fractional
// number of blocks, so each location keeps ceil(chipBlocks) interleaved shift
// registers and periodically feeds the same bit twice to stay in phase.
type lfHeader struct {
	hist *History
	locs []lfHeaderLocation
	rank []int
}

const corrScale = 10000

func newLFHeader(geo lfGeometry, hist *History) *lfHeader {
	h := &lfHeader{
		hist: hist,
		locs: make([]lfHeaderLocation, geo.delays),
		rank: make([]int, geo.delays),
	}
	for d := range h.locs {
		chip := geo.chipBlocks(d)
		n := int(math.Ceil(chip))
		h.locs[d] = lfHeaderLocation{
			regs: make([]uint32, n),
			corr: round(corrScale * (float64(n) - chip) / chip),
		}
	}

	return h
}

func (h *lfHeader) run() {
	word := h.hist.Latest()
	for d := range h.locs {
		loc := &h.locs[d]
		bit := uint32(word>>d) & 1

		loc.regs[loc.idx] = loc.regs[loc.idx]<<1 | bit
		h.rank[d] = headerRank(bits.OnesCount32(loc.regs[loc.idx] ^ headerWord))
		loc.idx = (loc.idx + 1) % len(loc.regs)

		loc.corrIdx += loc.corr
		if loc.corrIdx >= corrScale {
			loc.corrIdx -= corrScale
			loc.regs[loc.idx] = loc.regs[loc.idx]<<1 | bit
			loc.idx = (loc.idx + 1) % len(loc.regs)
		}
	}
}

func (h *lfHeader) reset() {
	for d := range h.locs {
		clear(h.locs[d].regs)
		h.locs[d].idx = 0
		h.locs[d].corrIdx = 0
	}
	clear(h.rank)
}

func (h *lfHeader) ranks() []int { return h.rank }

// hfHeader walks the HF history backwards along the header hop sequence once per
// block, for each of the five tempo hypotheses. Positions are kept in unsigned
// fixed point so that the fractional chip length accumulates without drift and
// wraps exactly with the history.
type hfHeader struct {
	hist     *History
	hops     []uint8
	rest     uint
	delays   [Scanners]uint32
	interval uint32
	index    uint32
	rank     []int
}

func newHFHeader(bitLen float64, hops []uint8, hist *History) *hfHeader {
	rest := uint(HeaderLength - ceilLog2(round((HeaderLength-1)*bitLen*1.035)+2))
	h := &hfHeader{
		hist:     hist,
		hops:     hops,
		rest:     rest,
		interval: 1 << rest,
		rank:     make([]int, Scanners),
	}
	for d := range h.delays {
		h.delays[d] = uint32(round(bitLen * intervalAvg[d] * float64(uint64(1)<<rest)))
	}
	h.index = h.interval / 2

	return h
}

func (h *hfHeader) run() {
	for d := range h.delays {
		rank := headerMaxError
		pos := h.index
		hop := len(h.hops)
		for j := range HeaderLength {
			hop--
			bit := uint8(h.hist.At(int(pos>>h.rest))>>h.hops[hop]) & 1
			if bit != headerPattern[HeaderLength-1-j] {
				rank--
				if rank == 0 {
					break
				}
			}
			pos -= h.delays[d]
			if hop == 0 {
				hop = len(h.hops)
			}
		}
		h.rank[d] = rank
	}
	h.index += h.interval
}

func (h *hfHeader) reset() {
	h.index = h.interval / 2
	clear(h.rank)
}

func (h *hfHeader) ranks() []int { return h.rank }
