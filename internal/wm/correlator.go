// SPDX-License-Identifier: EPL-2.0

package wm

import "github.com/ik5/dvdawm/internal/ring"

// historyLF is the number of LF correlator words kept.
const historyLF = 8

// correlator turns one block of band-filtered samples into a word of echo signs
// and appends it to its history.
type correlator interface {
	run()
	reset()
	words() *History
}

// lfCorrelator correlates the LF band against every integer delay in the +-10%
// window around the nominal echo. Word bit b is set when the running echo
// energy at delay min+b dropped compared to half a chip earlier.
type lfCorrelator struct {
	geo      lfGeometry
	input    *ring.Buffer[float32]
	blockLen int
	offset   int

	accumLen int
	accumIdx int
	accum    []float32

	avgsLen int
	avgsIdx int
	avgs    []float32

	hist *History
}

func newLFCorrelator(geo lfGeometry, run int, input *ring.Buffer[float32]) *lfCorrelator {
	c := &lfCorrelator{
		geo:      geo,
		input:    input,
		blockLen: run,
		accumLen: round(0.5*geo.bitLen) - 1,
		avgsLen:  round(0.5 * geo.bitLen),
		hist:     newHistory(historyLF),
	}
	c.accum = make([]float32, c.accumLen*geo.delays)
	c.avgs = make([]float32, c.avgsLen*geo.delays)

	return c
}

func (c *lfCorrelator) run() {
	var word uint16
	for i := range c.geo.delays {
		lag := c.offset - (c.geo.max - i)

		var sum float32
		for j := 0; j < c.blockLen; j += 2 {
			sum += c.input.At(lag+j) * c.input.At(c.offset+j)
		}

		acc := c.accum[i*c.accumLen : (i+1)*c.accumLen]
		avg := sum
		for _, v := range acc {
			avg += v
		}
		acc[c.accumIdx] = sum

		slot := &c.avgs[i*c.avgsLen+c.avgsIdx]
		var bit uint16
		if avg < *slot {
			bit = 1
		}
		*slot = avg

		word = word<<1 | bit
	}

	c.hist.push(word)
	c.offset = (c.offset + c.blockLen) & c.input.Mask()
	c.accumIdx = (c.accumIdx + 1) % c.accumLen
	c.avgsIdx = (c.avgsIdx + 1) % c.avgsLen
}

func (c *lfCorrelator) reset() {
	c.offset = 0
	c.accumIdx = 0
	c.avgsIdx = 0
	clear(c.accum)
	clear(c.avgs)
	c.hist.reset()
}

func (c *lfCorrelator) words() *History { return c.hist }

// hfCorrelator correlates the HF band against the 16 hop delays. Word bit b is
// set when the echo energy at delay HFDelay(b), summed over one chip, is
// non-negative.
type hfCorrelator struct {
	delays   [HFDelays]int
	input    *ring.Buffer[float32]
	blockLen int
	offset   int

	accumLen int
	accumIdx int
	accum    []float32

	hist *History
}

func newHFCorrelator(rate, run int, input *ring.Buffer[float32]) *hfCorrelator {
	bitLen := hfBitLen(rate, run)
	c := &hfCorrelator{
		input:    input,
		blockLen: run,
		accumLen: int(bitLen),
		hist:     newHistory(hfHistoryLen(bitLen)),
	}
	for i, coeff := range hfDelayCoeffs {
		c.delays[i] = round(float64(rate) * coeff)
	}
	c.accum = make([]float32, c.accumLen*HFDelays)

	return c
}

func (c *hfCorrelator) run() {
	var word uint16
	for i, delay := range c.delays {
		lag := c.offset - delay

		var sum float32
		for j := range c.blockLen {
			sum += c.input.At(lag+j) * c.input.At(c.offset+j)
		}

		acc := c.accum[i*c.accumLen : (i+1)*c.accumLen]
		acc[c.accumIdx] = sum

		var total float32
		for _, v := range acc {
			total += v
		}

		var bit uint16
		if total >= 0 {
			bit = 1
		}
		word = word<<1 | bit
	}

	c.hist.push(word)
	c.offset = (c.offset + c.blockLen) & c.input.Mask()
	c.accumIdx = (c.accumIdx + 1) % c.accumLen
}

func (c *hfCorrelator) reset() {
	c.offset = 0
	c.accumIdx = 0
	clear(c.accum)
	c.hist.reset()
}

func (c *hfCorrelator) words() *History { return c.hist }
