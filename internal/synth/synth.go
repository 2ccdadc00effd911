// SPDX-License-Identifier: EPL-2.0

// Package synth renders synthetic watermarked signals for tests and for the
// wmgen tool.
//
// The LF carrier is a pure tone plus a delayed copy whose gain sweeps linearly
// across each chip (falling for a 1 chip, rising for a 0 chip), which is what the
// LF correlator's energy-trend detector keys on. The HF carrier is white noise
// plus an echo at the chip's hop delay whose sign carries the chip.
package synth

import (
	"math"

	"github.com/ik5/dvdawm/internal/wm"
)

// Chip is one symbol of the chip stream. Hop is the HF word bit position that
// carries it; LF ignores Hop.
type Chip struct {
	Bit    uint8
	Hop    uint8
	Silent bool
}

// Silence returns n chips without echo.
func Silence(n int) []Chip {
	c := make([]Chip, n)
	for i := range c {
		c[i].Silent = true
	}

	return c
}

// ThreeBit builds a 3/8-bit packet: header, then the payload chips alternating
// reserved bits (even chips, first 120 only) and CCI bits (odd chips), spread
// by the payload pattern.
func ThreeBit(bits3 [3]uint8, reserved [8]uint8) []Chip {
	pattern := wm.PayloadPattern(wm.ThreeBit)
	hops := wm.PayloadHops(wm.ThreeBit)

	chips := header(wm.ThreeBit)
	for k, p := range pattern {
		var v uint8
		if k%2 == 1 {
			v = bits3[((k-1)/2)%3]
		} else if j := k / 2; j < 120 {
			v = reserved[j%8]
		}
		chips = append(chips, Chip{Bit: (p ^ v) & 1, Hop: hops[k%len(hops)]})
	}

	return chips
}

// OneBit builds a 1-bit packet.
func OneBit(bit uint8) []Chip {
	pattern := wm.PayloadPattern(wm.OneBit)
	hops := wm.PayloadHops(wm.OneBit)

	chips := header(wm.OneBit)
	for k, p := range pattern {
		chips = append(chips, Chip{Bit: (p ^ bit) & 1, Hop: hops[k%len(hops)]})
	}

	return chips
}

func header(p wm.Payload) []Chip {
	hops := wm.HeaderHops(p)
	bits := wm.HeaderChips()
	chips := make([]Chip, 0, len(bits)+p.Chips())
	for k, b := range bits {
		chips = append(chips, Chip{Bit: b, Hop: hops[k%len(hops)]})
	}

	return chips
}

// Stream concatenates lead silence, packets and tail silence.
func Stream(lead int, packets [][]Chip, tail int) []Chip {
	out := Silence(lead)
	for _, p := range packets {
		out = append(out, p...)
	}

	return append(out, Silence(tail)...)
}

// LF renders an LF chip stream.
type LF struct {
	Rate     int
	Delay    int // echo delay in samples
	Nominal  int // delay the chip rate is defined for
	Harmonic int // carrier is Harmonic*Rate/Delay Hz
	Gain     float64
	Level    float64
}

// NewLF returns the nominal LF rendering for a payload kind at rate.
func NewLF(rate int, p wm.Payload) LF {
	nominal := int(wm.LFEchoDelay(p)*float64(rate) + 0.5)
	harmonic := 9
	if p == wm.OneBit {
		harmonic = 5
	}

	return LF{Rate: rate, Delay: nominal, Nominal: nominal, Harmonic: harmonic, Gain: 0.5, Level: 0.5}
}

// Render returns mono samples. A stream played at another delay is stretched
// in time by the same ratio.
func (g LF) Render(chips []Chip) []float32 {
	chipLen := float64(g.Rate) / float64(wm.BitsPerSecond(wm.LF)) * float64(g.Delay) / float64(g.Nominal)
	w := 2 * math.Pi * float64(g.Harmonic) / float64(g.Delay)
	n := int(float64(len(chips)) * chipLen)

	out := make([]float32, n)
	for t := range out {
		k := int(float64(t) / chipLen)
		ph := (float64(t) - float64(k)*chipLen) / chipLen

		gain := 0.0
		if c := chips[min(k, len(chips)-1)]; !c.Silent {
			if c.Bit == 1 {
				gain = g.Gain * (1 - 2*ph)
			} else {
				gain = g.Gain * (2*ph - 1)
			}
		}
		out[t] = float32(g.Level * (math.Sin(w*float64(t+g.Delay)) + gain*math.Sin(w*float64(t))))
	}

	return out
}

// HF renders an HF chip stream over white noise.
type HF struct {
	Rate  int
	Tempo float64 // chip length and echo delay scale
	Gain  float64
	Level float64
	Seed  uint64
}

// NewHF returns the nominal HF rendering at rate.
func NewHF(rate int) HF {
	return HF{Rate: rate, Tempo: 1, Gain: 0.5, Level: 0.5, Seed: 1}
}

const noiseLead = 100

// Render returns mono samples.
func (g HF) Render(chips []Chip) []float32 {
	chipLen := float64(g.Rate) / float64(wm.BitsPerSecond(wm.HF)) * g.Tempo
	n := int(float64(len(chips)) * chipLen)

	noise := make([]float64, n+2*noiseLead)
	rng := newLCG(g.Seed)
	for i := range noise {
		noise[i] = rng.next()
	}

	out := make([]float32, n)
	for t := range out {
		y := noise[t+noiseLead]
		if c := chips[min(int(float64(t)/chipLen), len(chips)-1)]; !c.Silent {
			delay := int(float64(g.Rate)*wm.HFDelay(int(c.Hop))*g.Tempo + 0.5)
			sign := -1.0
			if c.Bit == 1 {
				sign = 1
			}
			y += g.Gain * sign * noise[t+noiseLead-delay]
		}
		out[t] = float32(g.Level * y)
	}

	return out
}

// lcg is a 64-bit linear congruential generator yielding uniform [-1, 1).
type lcg struct{ x uint64 }

func newLCG(seed uint64) *lcg { return &lcg{x: seed} }

func (r *lcg) next() float64 {
	r.x = r.x*6364136223846793005 + 1442695040888963407

	return float64(r.x>>11)/float64(uint64(1)<<53)*2 - 1
}

// Mix interleaves mono signals into a multichannel buffer, padding shorter
// channels with silence.
func Mix(channels ...[]float32) []float32 {
	n := 0
	for _, c := range channels {
		n = max(n, len(c))
	}
	out := make([]float32, n*len(channels))
	for ch, c := range channels {
		for i, v := range c {
			out[i*len(channels)+ch] = v
		}
	}

	return out
}

// Pad prepends n samples of silence.
func Pad(x []float32, n int) []float32 {
	return append(make([]float32, n), x...)
}
