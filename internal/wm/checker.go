// SPDX-License-Identifier: EPL-2.0

package wm

import (
	"fmt"
	"time"

	"github.com/ik5/dvdawm/internal/ring"
)

// Config wires a Checker to the band-filtered sample rings of its channel.
type Config struct {
	Channel int
	Rate    int // detector (base) rate
	LF      *ring.Buffer[float32]
	HF      *ring.Buffer[float32]
	Trace   bool
}

// Checker owns the four pipelines and the confidence state of one channel.
type Checker struct {
	channel int
	rate    int
	lfRun   int
	hfRun   int
	track   int
	origin  time.Duration
	trace   bool
	conf    *Confidence
	pipes   [4]*Pipeline // LF 3/8, LF 1, HF 3/8, HF 1
}

// NewChecker builds the pipelines for a detector rate of 44100 or 48000 Hz.
func NewChecker(cfg Config) (*Checker, error) {
	lfRun, hfRun, err := RunLengths(cfg.Rate)
	if err != nil {
		return nil, err
	}
	if cfg.LF == nil || cfg.HF == nil {
		return nil, fmt.Errorf("wm: channel %d: missing input ring", cfg.Channel)
	}

	c := &Checker{
		channel: cfg.Channel,
		rate:    cfg.Rate,
		lfRun:   lfRun,
		hfRun:   hfRun,
		trace:   cfg.Trace,
		conf:    NewConfidence(),
	}
	c.pipes = [4]*Pipeline{
		newLFPipeline(cfg.Rate, lfRun, ThreeBit, cfg.LF, c.conf),
		newLFPipeline(cfg.Rate, lfRun, OneBit, cfg.LF, c.conf),
		newHFPipeline(cfg.Rate, hfRun, ThreeBit, cfg.HF, c.conf),
		newHFPipeline(cfg.Rate, hfRun, OneBit, cfg.HF, c.conf),
	}

	return c, nil
}

// Run advances every pipeline over samples new samples (a multiple of the HF
// block length) and calls emit for each completed packet. It returns the number
// of detections.
func (c *Checker) Run(samples int, emit func(Detection)) int {
	n := 0
	for i := 0; i < samples; i += c.lfRun {
		for _, p := range c.pipes[:2] {
			p.step()
			n += c.collect(p, emit)
		}
	}
	for i := 0; i < samples; i += c.hfRun {
		for _, p := range c.pipes[2:] {
			p.step()
			n += c.collect(p, emit)
		}
	}

	return n
}

// collect reports completed slots. Other slots of the pipeline that started
// within one header of a reported packet follow the same instance on a
// neighbouring tempo location; they are released so that each instance is
// reported once, by its strongest slot.
func (c *Checker) collect(p *Pipeline, emit func(Detection)) int {
	pool := p.seq.pool
	window := int(HeaderLength*p.bitLen + 0.5)

	n := 0
	for {
		best := -1
		for i := range pool.slots {
			if pool.slots[i].code > 1 && (best < 0 || pool.slots[i].strength > pool.slots[best].strength) {
				best = i
			}
		}
		if best < 0 {
			return n
		}

		winner := &pool.slots[best]
		winner.code = 0
		for i := range pool.slots {
			s := &pool.slots[i]
			if i == best || abs(s.first-winner.first) > window {
				continue
			}
			s.code = 0
			pool.free(i)
		}

		n++
		if emit != nil {
			emit(c.detection(p, winner))
		}
	}
}

func (c *Checker) detection(p *Pipeline, s *Slot) Detection {
	run := c.lfRun
	if p.band == HF {
		run = c.hfRun
	}
	sec := float64(s.first)*float64(run)/float64(c.rate) - (HeaderLength+1.0)/float64(BitsPerSecond(p.band))

	d := Detection{
		Time:     c.origin + time.Duration(sec*float64(time.Second)),
		Channel:  c.channel,
		Track:    c.track,
		Band:     p.band,
		Payload:  p.payload,
		CCI:      c.conf.String(),
		Tempo:    p.tempo(s),
		Location: s.location,
		Rank:     s.strength,
	}
	if c.trace {
		d.Trace = make([]string, len(s.asm))
		for i := range s.asm {
			d.Trace[i] = s.asm[i].Dump()
		}
	}

	return d
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

// Restart clears every pipeline and anchors block 0 at origin. Confidence is
// kept.
func (c *Checker) Restart(origin time.Duration) {
	for _, p := range c.pipes {
		p.reset()
	}
	c.origin = origin
}

// Confidence returns the channel's decision state.
func (c *Checker) Confidence() *Confidence { return c.conf }

// Pipeline returns pipeline b/p.
func (c *Checker) Pipeline(b Band, p Payload) *Pipeline { return c.pipes[int(b)*2+int(p)] }

// SetTrack stamps later detections with a track number (0 for none).
func (c *Checker) SetTrack(track int) { c.track = track }

// Channel returns the zero-based channel index.
func (c *Checker) Channel() int { return c.channel }
