// SPDX-License-Identifier: EPL-2.0

package wm

import "math"

// lfHops maps an LF location to its single-entry hop sequence: location d reads
// word bit d.
var lfHops = [16]uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

// trackLocation is the per-location packet tracker state. It is idle while
// countdown is 0; the first non-zero header rank opens a window of `window`
// blocks in which squared ranks are summed, weighted by the blocks remaining.
// Closing the window yields the header position as the weighted centroid.
type trackLocation struct {
	window    int
	countdown int
	sum2      int
	mul       int

	// avg1 is the measured chip length, re-estimated from two consecutive
	// decisions one packet apart; avg2 the nominal one for this location.
	avg1, avg2     float64
	minLen, maxLen int

	recalc         bool
	minOff, maxOff int
	lastOff        int
	next           int
	hops           []uint8
}

// tracker converts header ranks into slot allocations.
type tracker struct {
	ranks   []int
	pool    *Pool
	locs    []trackLocation
	plen    int
	nominal int
	block   int
}

func newLFTracker(geo lfGeometry, p Payload, ranks []int, pool *Pool) *tracker {
	t := &tracker{
		ranks:   ranks,
		pool:    pool,
		locs:    make([]trackLocation, geo.delays),
		plen:    p.Chips() + HeaderLength,
		nominal: geo.avg - geo.min,
	}
	for d := range t.locs {
		avg := geo.chipBlocks(d)
		lo := geo.bitLen * float64(geo.min+d-1) / float64(geo.avg)
		hi := geo.bitLen * float64(geo.min+d+1) / float64(geo.avg)
		t.locs[d] = t.location(avg, lo, hi, int(0.5*avg+4), lfHops[d:d+1])
	}

	return t
}

func newHFTracker(bitLen float64, p Payload, hops []uint8, ranks []int, pool *Pool) *tracker {
	t := &tracker{
		ranks: ranks,
		pool:  pool,
		locs:  make([]trackLocation, Scanners),
		plen:  p.Chips() + HeaderLength,
	}
	for d := range t.locs {
		avg := bitLen * intervalAvg[d]
		t.locs[d] = t.location(avg, bitLen*intervalMin[d], bitLen*intervalMax[d], int(avg+4), hops)
	}

	return t
}

func (t *tracker) location(avg, lo, hi float64, window int, hops []uint8) trackLocation {
	return trackLocation{
		window: window,
		avg1:   avg,
		avg2:   avg,
		minLen: round(float64(t.plen) * lo),
		maxLen: round(float64(t.plen) * hi),
		hops:   hops,
	}
}

func (t *tracker) run() {
	for d := range t.locs {
		l := &t.locs[d]
		r2 := t.ranks[d] * t.ranks[d]

		if t.block == l.next {
			l.recalc = false
		}
		if r2 != 0 && l.countdown == 0 {
			l.countdown = l.window
		}
		if l.countdown == 0 {
			continue
		}

		l.countdown--
		l.sum2 += r2
		if l.countdown != 0 {
			l.mul += l.countdown * r2
			continue
		}
		t.decide(d, l)
	}
	t.block++
}

func (t *tracker) decide(d int, l *trackLocation) {
	mean := float64(l.mul) / float64(l.sum2)
	off := t.block - round(mean)
	if l.recalc && off >= l.minOff && off <= l.maxOff {
		l.avg1 = float64(off-l.lastOff) / float64(t.plen)
	}

	// The centroid sits mid-header; shift it to the first payload chip using the
	// measured chip length.
	adj := 0.5*HeaderLength*(l.avg1-l.avg2) + l.avg2 - mean
	if adj > 0 {
		adj += 0.5
	} else {
		adj -= 0.5
	}
	t.place(d, l, t.block+int(adj)+1, d+1)

	if d == t.nominal && math.Abs(l.avg1/l.avg2-1) > 0.0003 {
		t.place(d, l, t.block+int(l.avg1-mean+0.5)+1, 0)
	}

	l.mul = 0
	l.sum2 = 0
	l.recalc = true
	l.minOff = t.block + l.minLen
	l.maxOff = t.block + l.maxLen
	l.lastOff = off
	l.next = t.block + l.maxLen + l.window
}

func (t *tracker) place(d int, l *trackLocation, offset, key int) {
	i := t.pool.find(l.sum2)
	if t.pool.slots[i].rank >= l.sum2 {
		return
	}
	t.pool.alloc(i, hypothesis{
		location:  d,
		locations: len(t.locs),
		interval:  l.avg1,
		offset:    offset,
		hops:      l.hops,
		rank:      l.sum2,
		key:       key,
	})
}

func (t *tracker) reset() {
	for d := range t.locs {
		l := &t.locs[d]
		l.countdown = 0
		l.sum2 = 0
		l.mul = 0
		l.avg1 = l.avg2
		l.recalc = false
		l.minOff, l.maxOff = 0, 0
		l.lastOff = 0
		l.next = 0
	}
	t.block = 0
}
