// SPDX-License-Identifier: EPL-2.0

// Package wm holds the watermark detection core: echo correlators, packet header
// detectors, the packet tracker, the scanner slot pool, payload assemblers and
// the per-channel confidence state that turns completed packets into a 12-character
// CCI string.
//
// # Pipelines
//
// A channel runs four pipelines, one per band and payload kind:
//
//	LF 3/8 bit   echo at ~1.54 ms, 75 bits/s, 253-chip payload
//	LF 1 bit     echo at ~0.77 ms, 75 bits/s, 154-chip payload
//	HF 3/8 bit   16 hopped echoes, 50 bits/s, 253-chip payload
//	HF 1 bit     16 hopped echoes, 50 bits/s, 154-chip payload
//
// Each pipeline runs once per correlation block in a fixed order: correlator,
// header detector, packet tracker, slot sequence. The Checker drives all four and
// turns completed packets into Detection values.
//
// Nothing in this package allocates after construction.
package wm
