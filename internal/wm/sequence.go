// SPDX-License-Identifier: EPL-2.0

package wm

// sequence feeds the history to every active slot once its next chip is due.
// Assembler i reads the word i blocks behind, so the three assemblers see the
// same chip at three phases.
type sequence struct {
	band  Band
	hist  *History
	pool  *Pool
	conf  *Confidence
	start int
	block int
}

func newSequence(b Band, p Payload, hist *History, conf *Confidence) *sequence {
	s := &sequence{
		band: b,
		hist: hist,
		pool: newPool(p),
		conf: conf,
	}

	// Lag behind the correlator so the look-back stays inside the history.
	switch n := hist.Len(); {
	case n <= 12:
		s.start = -(n - Assemblers)
	case n < 128:
		s.start = -16
	default:
		s.start = -(n >> 3)
	}
	s.block = s.start

	return s
}

func (s *sequence) run() {
	for i := range s.pool.slots {
		slot := &s.pool.slots[i]
		if !slot.Active() || s.block < slot.next {
			continue
		}

		bitPos := slot.hops[slot.hop]
		for a := range slot.asm {
			bit := uint8(s.hist.At(s.block-a)>>bitPos) & 1
			slot.code |= slot.asm[a].check(bit, s.conf, s.band)
		}

		if slot.code != 0 {
			s.pool.free(i)
			continue
		}
		slot.offset += slot.interval
		slot.next = slot.first + round(slot.offset)
		slot.hop = (slot.hop + 1) % len(slot.hops)
	}
	s.block++
}

func (s *sequence) reset() {
	s.pool.reset()
	s.block = s.start
}
