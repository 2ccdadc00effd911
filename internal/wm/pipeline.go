// SPDX-License-Identifier: EPL-2.0

package wm

import "github.com/ik5/dvdawm/internal/ring"

// Pipeline is one band/payload detector: correlator, header detector, packet
// tracker and slot sequence, stepped together once per block.
type Pipeline struct {
	band    Band
	payload Payload
	bitLen  float64
	corr    correlator
	head    headerDetector
	track   *tracker
	seq     *sequence
}

func newLFPipeline(rate, run int, p Payload, input *ring.Buffer[float32], conf *Confidence) *Pipeline {
	geo := newLFGeometry(rate, LFEchoDelay(p), run)
	corr := newLFCorrelator(geo, run, input)
	head := newLFHeader(geo, corr.words())
	seq := newSequence(LF, p, corr.words(), conf)
	conf.attach(LF, p, geo.delays)

	return &Pipeline{
		band:    LF,
		payload: p,
		bitLen:  geo.bitLen,
		corr:    corr,
		head:    head,
		track:   newLFTracker(geo, p, head.ranks(), seq.pool),
		seq:     seq,
	}
}

func newHFPipeline(rate, run int, p Payload, input *ring.Buffer[float32], conf *Confidence) *Pipeline {
	bitLen := hfBitLen(rate, run)
	corr := newHFCorrelator(rate, run, input)
	head := newHFHeader(bitLen, HeaderHops(p), corr.words())
	seq := newSequence(HF, p, corr.words(), conf)
	conf.attach(HF, p, Scanners)

	return &Pipeline{
		band:    HF,
		payload: p,
		bitLen:  bitLen,
		corr:    corr,
		head:    head,
		track:   newHFTracker(bitLen, p, PayloadHops(p), head.ranks(), seq.pool),
		seq:     seq,
	}
}

// Band returns the carrier band.
func (p *Pipeline) Band() Band { return p.band }

// Payload returns the packet layout.
func (p *Pipeline) Payload() Payload { return p.payload }

// Pool returns the slot pool.
func (p *Pipeline) Pool() *Pool { return p.seq.pool }

// Ranks returns the header ranks of the last block, one per tempo location.
func (p *Pipeline) Ranks() []int { return p.head.ranks() }

// History returns the correlator words.
func (p *Pipeline) History() *History { return p.corr.words() }

func (p *Pipeline) step() {
	p.corr.run()
	p.head.run()
	p.track.run()
	p.seq.run()
}

func (p *Pipeline) reset() {
	p.corr.reset()
	p.head.reset()
	p.track.reset()
	p.seq.reset()
}

// tempo converts a slot location into a relative tempo deviation.
func (p *Pipeline) tempo(s *Slot) float64 {
	if p.band == HF {
		return intervalAvg[s.location] - 1
	}
	mid := (s.locations - 1) / 2

	return float64(s.location-mid) / float64(mid) * 0.1
}
