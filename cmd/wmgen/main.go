// SPDX-License-Identifier: EPL-2.0

// Command wmgen writes a WAV file carrying a synthetic watermark, for
// exercising dvdawm and player integrations.
//
//	wmgen -o marked.wav --band lf --payload 3 --cci 100 --packets 2
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/ik5/dvdawm/formats/wav"
	"github.com/ik5/dvdawm/internal/synth"
	"github.com/ik5/dvdawm/internal/wm"
)

var (
	errBits    = errors.New("bit string must contain only 0 and 1")
	errOption  = errors.New("invalid option")
	errNoOutput = errors.New("no output file, use -o")
)

type options struct {
	output   string
	rate     int
	bits     int
	channels int
	channel  int
	band     string
	payload  int
	cci      string
	reserved string
	packets  int
	gap      int
	lead     int
	tail     int
	tempo    float64
	seed     uint64
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	logger := log.NewWithOptions(stderr, log.Options{Prefix: "wmgen"})

	var o options
	fs := pflag.NewFlagSet("wmgen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.output, "output", "o", "", "Output WAV file.")
	fs.IntVarP(&o.rate, "rate", "r", 44100, "Sample rate in Hz.")
	fs.IntVarP(&o.bits, "bits", "b", 24, "Bits per sample: 8, 16, 24 or 32.")
	fs.IntVarP(&o.channels, "channels", "n", 2, "Number of channels.")
	fs.IntVar(&o.channel, "channel", 1, "Channel carrying the watermark, 1-based. 0 marks every channel.")
	fs.StringVar(&o.band, "band", "lf", "Carrier band: lf or hf.")
	fs.IntVarP(&o.payload, "payload", "p", 3, "Payload kind: 3 (3/8-bit) or 1 (1-bit).")
	fs.StringVar(&o.cci, "cci", "100", "Payload bits: three for a 3/8-bit packet, one for a 1-bit packet.")
	fs.StringVar(&o.reserved, "reserved", "00000000", "Reserved byte of a 3/8-bit packet.")
	fs.IntVar(&o.packets, "packets", 1, "Number of packets.")
	fs.IntVar(&o.gap, "gap", 0, "Silent chips between packets.")
	fs.IntVar(&o.lead, "lead", 75, "Silent chips before the first packet.")
	fs.IntVar(&o.tail, "tail", 40, "Silent chips after the last packet.")
	fs.Float64Var(&o.tempo, "tempo", 0, "Relative tempo deviation, e.g. -0.03.")
	fs.Uint64Var(&o.seed, "seed", 1, "Noise seed of the HF carrier.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}

		return 2
	}

	samples, err := render(o)
	if err != nil {
		logger.Error("cannot render", "err", err)
		return 2
	}

	if err := write(o, samples); err != nil {
		logger.Error("cannot write", "file", o.output, "err", err)
		return 1
	}

	frames := len(samples) / o.channels
	logger.Info("written", "file", o.output,
		"frames", humanize.Comma(int64(frames)),
		"size", humanize.IBytes(uint64(len(samples)*o.bits/8)))

	return 0
}

func parseBits(s string, n int) ([]uint8, error) {
	if len(s) != n {
		return nil, fmt.Errorf("%w: %q needs %d bits", errBits, s, n)
	}

	out := make([]uint8, n)
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			out[i] = 1
		default:
			return nil, fmt.Errorf("%w: %q", errBits, s)
		}
	}

	return out, nil
}

func packet(o options) ([]synth.Chip, wm.Payload, error) {
	switch o.payload {
	case 1:
		b, err := parseBits(o.cci, 1)
		if err != nil {
			return nil, 0, err
		}

		return synth.OneBit(b[0]), wm.OneBit, nil
	case 3:
		b3, err := parseBits(o.cci, 3)
		if err != nil {
			return nil, 0, err
		}
		b8, err := parseBits(o.reserved, 8)
		if err != nil {
			return nil, 0, err
		}

		return synth.ThreeBit([3]uint8(b3), [8]uint8(b8)), wm.ThreeBit, nil
	}

	return nil, 0, fmt.Errorf("%w: payload %d", errOption, o.payload)
}

// render returns the interleaved samples of the whole file.
func render(o options) ([]float32, error) {
	if o.output == "" {
		return nil, errNoOutput
	}
	if o.channels < 1 || o.channel < 0 || o.channel > o.channels {
		return nil, fmt.Errorf("%w: channel %d of %d", errOption, o.channel, o.channels)
	}
	if o.packets < 1 || o.gap < 0 || o.lead < 0 || o.tail < 0 {
		return nil, fmt.Errorf("%w: packet layout", errOption)
	}
	if o.tempo <= -0.5 || o.tempo >= 0.5 {
		return nil, fmt.Errorf("%w: tempo %g", errOption, o.tempo)
	}

	chips, p, err := packet(o)
	if err != nil {
		return nil, err
	}

	var packets [][]synth.Chip
	for i := range o.packets {
		if i > 0 && o.gap > 0 {
			packets = append(packets, synth.Silence(o.gap))
		}
		packets = append(packets, chips)
	}
	stream := synth.Stream(o.lead, packets, o.tail)

	var mono []float32
	switch strings.ToLower(o.band) {
	case "lf":
		g := synth.NewLF(o.rate, p)
		g.Delay = int(float64(g.Nominal)*(1+o.tempo) + 0.5)
		mono = g.Render(stream)
	case "hf":
		g := synth.NewHF(o.rate)
		g.Tempo = 1 + o.tempo
		g.Seed = o.seed
		mono = g.Render(stream)
	default:
		return nil, fmt.Errorf("%w: band %q", errOption, o.band)
	}

	tracks := make([][]float32, o.channels)
	for ch := range tracks {
		if o.channel == 0 || ch == o.channel-1 {
			tracks[ch] = mono
		} else {
			tracks[ch] = make([]float32, len(mono))
		}
	}

	return synth.Mix(tracks...), nil
}

func write(o options, samples []float32) error {
	f, err := os.Create(o.output)
	if err != nil {
		return err
	}

	if err := wav.Write(f, o.rate, o.channels, o.bits, samples); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
