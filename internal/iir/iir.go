// SPDX-License-Identifier: EPL-2.0

// Package iir implements the fixed-coefficient IIR filters that feed the watermark
// correlators: two band-pass filters (LF 4.3-7.7 kHz, HF 8.3-15.7 kHz) and the
// decimation low-pass used for 88.2/96/176.4/192 kHz input.
//
// # Rate classes
//
// Every supported rate belongs to one of two base rates:
//
//	44100, 88200, 176400 -> 44100
//	48000, 96000, 192000 -> 48000
//
// The band-pass tables are selected by base rate, the decimation table by the
// input rate. At a base rate the decimator is a pass-through.
package iir

import "fmt"

// Filter is a transposed direct form II IIR filter over float32 samples.
// A Filter with an empty table passes samples through unchanged.
type Filter struct {
	table Table
	state []float32
}

// New creates a filter with zeroed state.
func New(t Table) *Filter {
	return &Filter{
		table: t,
		state: make([]float32, len(t.B)),
	}
}

// Run filters one sample.
func (f *Filter) Run(x float32) float32 {
	n := len(f.state)
	if n == 0 {
		return x
	}

	b, a, s := f.table.B, f.table.A, f.state
	y := b[0]*x + s[0]
	for j := 1; j < n; j++ {
		s[j-1] = b[j]*x - a[j]*y + s[j]
	}

	return y
}

// Reset zeroes the filter memory.
func (f *Filter) Reset() {
	clear(f.state)
}

// Decimation returns the base rate and downsample factor for a supported input rate.
func Decimation(rate int) (baseRate, factor int, err error) {
	switch rate {
	case 44100, 48000:
		return rate, 1, nil
	case 88200, 96000:
		return rate / 2, 2, nil
	case 176400, 192000:
		return rate / 4, 4, nil
	}

	return 0, 0, fmt.Errorf("%w: %d Hz", ErrUnsupportedRate, rate)
}

// LowBand returns the LF band-pass table for a base rate.
func LowBand(baseRate int) (Table, error) {
	switch baseRate {
	case 44100:
		return lowBand44100, nil
	case 48000:
		return lowBand48000, nil
	}

	return Table{}, fmt.Errorf("%w: no LF band table for %d Hz", ErrUnsupportedRate, baseRate)
}

// HighBand returns the HF band-pass table for a base rate.
func HighBand(baseRate int) (Table, error) {
	switch baseRate {
	case 44100:
		return highBand44100, nil
	case 48000:
		return highBand48000, nil
	}

	return Table{}, fmt.Errorf("%w: no HF band table for %d Hz", ErrUnsupportedRate, baseRate)
}

// Decimator returns the anti-alias table for an input rate. Base rates get an
// empty table, which makes the filter a pass-through.
func Decimator(rate int) (Table, error) {
	_, factor, err := Decimation(rate)
	if err != nil {
		return Table{}, err
	}

	switch factor {
	case 2:
		return decimate2, nil
	case 4:
		return decimate4, nil
	}

	return Table{Name: "pass-through"}, nil
}
