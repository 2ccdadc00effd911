// SPDX-License-Identifier: EPL-2.0

package dvdawm

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/ik5/dvdawm/internal/iir"
	"github.com/ik5/dvdawm/internal/ring"
	"github.com/ik5/dvdawm/internal/wm"
)

// Detection is a reported watermark packet.
type Detection = wm.Detection

const (
	echoDelay = 0.0007709
	lfChips   = 75.0
	hfChips   = 50.0

	// checkerFootprint approximates the pipeline state of one channel.
	checkerFootprint = 16 << 10
)

// channel owns the signal path and the checker of one input channel.
type channel struct {
	df, lf, hf   *iir.Filter
	lfBuf, hfBuf *ring.Buffer[float32]
	check        *wm.Checker
}

// Detector is a streaming multi-channel watermark detector. It is not safe for
// concurrent use.
type Detector struct {
	channels []channel
	rate     int
	baseRate int
	factor   int
	checkLen int

	runIndex int
	dsIndex  int
	origin   time.Duration

	logger  *log.Logger
	handler func(Detection)
}

// SupportedSampleRate reports whether New accepts rate.
func SupportedSampleRate(rate int) bool {
	_, _, err := iir.Decimation(rate)

	return err == nil
}

// Footprint estimates the memory New allocates for a configuration.
func Footprint(channels, sampleRate int) (uint64, error) {
	base, _, err := iir.Decimation(sampleRate)
	if err != nil {
		return 0, fmt.Errorf("%w: %d Hz", ErrUnsupportedSampleRate, sampleRate)
	}
	lf, hf := ringSizes(base)
	per := uint64(4*(lf+hf)) + checkerFootprint

	return uint64(channels) * per, nil
}

// ringSizes returns the filtered-sample ring lengths: one chip plus three echo
// delays of history, rounded up to a power of two.
func ringSizes(baseRate int) (lf, hf int) {
	lf = ring.RoundSize(int(float64(baseRate) * (1/lfChips + 3*echoDelay)))
	hf = ring.RoundSize(int(float64(baseRate) * (1/hfChips + 3*echoDelay)))

	return lf, hf
}

// New creates a detector for interleaved input with the given channel count
// and sample rate (44100, 48000 or their 2x/4x multiples).
func New(channels, sampleRate int, opts ...Option) (*Detector, error) {
	s := defaultSettings()
	for _, o := range opts {
		o(&s)
	}

	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	base, factor, err := iir.Decimation(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %d Hz", ErrUnsupportedSampleRate, sampleRate)
	}

	need, _ := Footprint(channels, sampleRate)
	if s.memLimit > 0 && need > s.memLimit {
		return nil, fmt.Errorf("%w: need %s, limit %s", ErrOutOfMemory,
			humanize.IBytes(need), humanize.IBytes(s.memLimit))
	}

	d := &Detector{
		channels: make([]channel, channels),
		rate:     sampleRate,
		baseRate: base,
		factor:   factor,
		logger:   s.logger,
		handler:  s.handler,
	}

	lfRun, _, err := wm.RunLengths(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedSampleRate, err)
	}
	d.checkLen = 3 * lfRun

	lfSize, hfSize := ringSizes(base)
	for i := range d.channels {
		if err := d.channels[i].init(i, sampleRate, base, lfSize, hfSize, s.trace); err != nil {
			return nil, err
		}
	}

	d.logger.Info("watermark detector ready",
		"channels", channels, "rate", sampleRate, "detector_rate", base, "decimation", factor,
		"footprint", humanize.IBytes(need))

	return d, nil
}

func (c *channel) init(idx, rate, base, lfSize, hfSize int, trace bool) error {
	dfTable, err := iir.Decimator(rate)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedSampleRate, err)
	}
	lfTable, err := iir.LowBand(base)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedSampleRate, err)
	}
	hfTable, err := iir.HighBand(base)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedSampleRate, err)
	}

	c.df, c.lf, c.hf = iir.New(dfTable), iir.New(lfTable), iir.New(hfTable)
	c.lfBuf = ring.New[float32](lfSize)
	c.hfBuf = ring.New[float32](hfSize)

	c.check, err = wm.NewChecker(wm.Config{
		Channel: idx,
		Rate:    base,
		LF:      c.lfBuf,
		HF:      c.hfBuf,
		Trace:   trace,
	})
	if err != nil {
		return fmt.Errorf("channel %d: %w", idx, err)
	}

	return nil
}

func (c *channel) restart(origin time.Duration) {
	c.df.Reset()
	c.lf.Reset()
	c.hf.Reset()
	c.lfBuf.Clear()
	c.hfBuf.Clear()
	c.check.Restart(origin)
}

// Channels returns the configured channel count.
func (d *Detector) Channels() int { return len(d.channels) }

// SampleRate returns the input sample rate.
func (d *Detector) SampleRate() int { return d.rate }

// Run consumes interleaved samples and returns the number of detections. A
// trailing partial frame is ignored.
func (d *Detector) Run(data []float32) int { return run(d, data) }

// RunFloat64 is Run for float64 input.
func (d *Detector) RunFloat64(data []float64) int { return run(d, data) }

func run[T float32 | float64](d *Detector, data []T) int {
	nch := len(d.channels)
	frames := len(data) / nch

	n := 0
	for f := range frames {
		frame := data[f*nch : (f+1)*nch]
		for ch := range d.channels {
			c := &d.channels[ch]
			x := c.df.Run(float32(frame[ch]))
			if d.dsIndex == 0 {
				c.lfBuf.Set(d.runIndex, c.lf.Run(x))
				c.hfBuf.Set(d.runIndex, c.hf.Run(x))
			}
		}

		if d.dsIndex == 0 && d.runIndex != 0 && d.runIndex%d.checkLen == 0 {
			for ch := range d.channels {
				n += d.channels[ch].check.Run(d.checkLen, d.emit)
			}
		}

		d.dsIndex++
		if d.dsIndex == d.factor {
			d.dsIndex = 0
			d.runIndex++
		}
	}

	return n
}

func (d *Detector) emit(det Detection) {
	d.logger.Info("watermark", "time", wm.FormatTime(det.Time), "channel", det.Channel+1,
		"band", det.Band, "payload", det.Payload, "cci", det.CCI, "tempo", det.Tempo)
	if len(det.Trace) > 0 {
		d.logger.Debug(det.Report())
	}
	if d.handler != nil {
		d.handler(det)
	}
}

// Position returns the stream time of the next input sample.
func (d *Detector) Position() time.Duration {
	return d.origin + time.Duration(float64(d.runIndex)/float64(d.baseRate)*float64(time.Second))
}

func (d *Detector) restart(origin time.Duration) {
	for i := range d.channels {
		d.channels[i].restart(origin)
	}
	d.runIndex, d.dsIndex = 0, 0
	d.origin = origin
}

// Reset drops every packet hypothesis and the confidence state. Stream time
// keeps running from the current position.
func (d *Detector) Reset() {
	d.Retime(d.Position())
}

// Retime drops every packet hypothesis and the confidence state, and anchors
// the next input sample at seek.
func (d *Detector) Retime(seek time.Duration) {
	d.restart(seek)
	d.ResetConfidence()
}

// ResetConfidence clears the accumulated tallies and the decoded CCI.
func (d *Detector) ResetConfidence() {
	for i := range d.channels {
		d.channels[i].check.Confidence().Reset()
	}
}

// SetTrack stamps later detections with a track number (0 for none).
func (d *Detector) SetTrack(track int) {
	for i := range d.channels {
		d.channels[i].check.SetTrack(track)
	}
}

// CCI returns the decoded CCI string of a channel, "" for an invalid channel.
func (d *Detector) CCI(channel int) string {
	if channel < 0 || channel >= len(d.channels) {
		return ""
	}

	return d.channels[channel].check.Confidence().String()
}
