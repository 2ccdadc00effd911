// SPDX-License-Identifier: EPL-2.0

package wm

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// Detection is one completed watermark packet.
type Detection struct {
	Time     time.Duration `json:"time"`
	Channel  int           `json:"channel"` // zero-based
	Track    int           `json:"track,omitempty"`
	Band     Band          `json:"band"`
	Payload  Payload       `json:"payload"`
	CCI      string        `json:"cci"`
	Tempo    float64       `json:"tempo"`
	Location int           `json:"location"`
	Rank     int           `json:"rank"`
	Trace    []string      `json:"trace,omitempty"`
}

// String renders the one-line summary:
//
//	[00:00:01.00095] - Watermark on tr 1 / ch 1 - LF 3/8 BIT [100000000000] - Tempo +0.000
func (d Detection) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(FormatTime(d.Time))
	sb.WriteString("] - Watermark on ")
	if d.Track > 0 {
		fmt.Fprintf(&sb, "tr %d / ", d.Track)
	}
	fmt.Fprintf(&sb, "ch %d - %s %s [%s] - Tempo %+06.3f", d.Channel+1, d.Band, d.Payload, d.CCI, d.Tempo)

	return sb.String()
}

// Report renders the summary followed by the assembler tallies, if any.
func (d Detection) Report() string {
	if len(d.Trace) == 0 {
		return d.String()
	}

	var sb strings.Builder
	sb.WriteString(d.String())
	for i, t := range d.Trace {
		fmt.Fprintf(&sb, "\n  ASSEMBLER(%d): %s", i, t)
	}

	return sb.String()
}

// ID is a stable hash of the detection identity, usable as a de-duplication key
// across runs over the same material.
func (d Detection) ID() string {
	key := fmt.Sprintf("%d|%d|%s|%s|%d|%s", d.Channel, d.Track, d.Band, d.Payload, d.Time.Milliseconds(), d.CCI)

	return fmt.Sprintf("%016x", xxh3.HashString(key))
}

// FormatTime renders t as hh:mm:ss.fffff, or -h:mm:ss.fffff when negative.
func FormatTime(t time.Duration) string {
	sec := t.Seconds()
	a := math.Abs(sec)
	h := int(a / 3600)
	m := int(a/60) - h*60
	s := int(a) - h*3600 - m*60
	frac := int((a - math.Floor(a)) * 100000)

	if sec < 0 {
		return fmt.Sprintf("-%01d:%02d:%02d.%05d", h, m, s, frac)
	}

	return fmt.Sprintf("%02d:%02d:%02d.%05d", h, m, s, frac)
}
