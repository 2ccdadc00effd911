// SPDX-License-Identifier: EPL-2.0

package wm

import "github.com/ik5/dvdawm/internal/ring"

// History keeps the most recent correlator words, one per block, addressed by
// absolute block number.
type History struct {
	words *ring.Buffer[uint16]
	next  int
}

func newHistory(size int) *History {
	return &History{words: ring.New[uint16](size)}
}

func (h *History) push(w uint16) {
	h.words.Set(h.next, w)
	h.next++
}

// At returns the word of block i.
func (h *History) At(i int) uint16 { return h.words.At(i) }

// Latest returns the word of the last block pushed.
func (h *History) Latest() uint16 { return h.words.At(h.next - 1) }

// Len returns the number of words kept.
func (h *History) Len() int { return h.words.Len() }

// Blocks returns how many words were pushed since the last reset.
func (h *History) Blocks() int { return h.next }

func (h *History) reset() {
	h.words.Clear()
	h.next = 0
}
