// SPDX-License-Identifier: EPL-2.0

package wm

// Slot follows one packet candidate from its first payload chip to completion.
type Slot struct {
	location  int
	locations int
	interval  float64 // blocks per chip
	first     int     // block of the first payload chip
	next      int     // block of the next chip to read
	offset    float64
	hops      []uint8
	hop       int
	rank      int // 0 when free
	strength  int // rank at allocation, kept after release
	code      int
	asm       [Assemblers]Assembler
}

// Active reports whether the slot tracks a candidate.
func (s *Slot) Active() bool { return s.rank > 0 }

// hypothesis is a packet candidate produced by the tracker.
type hypothesis struct {
	location  int
	locations int
	interval  float64
	offset    int
	hops      []uint8
	rank      int
	key       int
}

// Pool is the fixed set of scanner slots of one pipeline.
type Pool struct {
	slots [Scanners]Slot
}

func newPool(p Payload) *Pool {
	pool := &Pool{}
	for i := range pool.slots {
		for a := range pool.slots[i].asm {
			pool.slots[i].asm[a] = newAssembler(p)
		}
	}

	return pool
}

// find returns the weakest slot with a rank below rank, stopping at the first
// free one. It returns slot 0 when every slot is at least as strong; callers
// compare before allocating.
func (p *Pool) find(rank int) int {
	best, slot := rank, 0
	for i := range p.slots {
		if p.slots[i].rank < best {
			best, slot = p.slots[i].rank, i
			if best == 0 {
				break
			}
		}
	}

	return slot
}

// alloc overwrites slot i with h and resets its assemblers.
func (p *Pool) alloc(i int, h hypothesis) {
	s := &p.slots[i]
	s.location = h.location
	s.locations = h.locations
	s.interval = h.interval
	s.first = h.offset
	s.next = h.offset
	s.offset = 0
	s.hops = h.hops
	s.hop = 0
	s.rank = h.rank
	s.strength = h.rank
	s.code = 0
	for a := range s.asm {
		s.asm[a].reset(h.key)
	}
}

func (p *Pool) free(i int) { p.slots[i].rank = 0 }

func (p *Pool) reset() {
	for i := range p.slots {
		s := &p.slots[i]
		s.rank = 0
		s.strength = 0
		s.code = 0
		s.first, s.next = 0, 0
		s.offset = 0
		s.hop = 0
		for a := range s.asm {
			s.asm[a].reset(0)
		}
	}
}

// Slot returns slot i.
func (p *Pool) Slot(i int) *Slot { return &p.slots[i] }
