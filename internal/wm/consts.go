// SPDX-License-Identifier: EPL-2.0

package wm

// Packet layout.
const (
	HeaderLength   = 32
	ThreeBitChips  = 253
	OneBitChips    = 154
	Scanners       = 5
	Assemblers     = 3
	HFDelays       = 16
	lfBitsPerSec   = 75
	hfBitsPerSec   = 50
	headerWord     = 0x59f1ba84
	headerMaxError = 6
)

// echoDelay is the nominal LF echo delay in seconds. The 3-bit payload rides on
// twice this delay, the 1-bit payload on the delay itself.
const echoDelay = 0.0007709

// Tempo hypotheses shared by the HF pipelines. Index 0 is nominal.
var (
	intervalAvg = [Scanners]float64{1.000, 0.981, 1.019, 0.965, 1.035}
	intervalMin = [Scanners]float64{0.986, 0.969, 1.005, 0.960, 1.023}
	intervalMax = [Scanners]float64{1.014, 0.995, 1.031, 0.977, 1.040}
)

var headerPattern = [HeaderLength]uint8{
	0, 1, 0, 1, 1, 0, 0, 1, 1, 1, 1, 1, 0, 0, 0, 1,
	1, 0, 1, 1, 1, 0, 1, 0, 1, 0, 0, 0, 0, 1, 0, 0,
}

// hfDelayCoeffs are the HF echo delays in seconds. Correlator word bit b holds
// coefficient 15-b.
var hfDelayCoeffs = [HFDelays]float64{
	0.0018141, 0.0017914, 0.0017687, 0.0015646,
	0.0015420, 0.0015193, 0.0012926, 0.0012699,
	0.0010431, 0.0010204, 0.0009977, 0.0007937,
	0.0007710, 0.0007483, 0.0005215, 0.0004989,
}

var (
	hfHop3 = []uint8{
		3, 7, 15, 11, 12, 9, 2, 6, 10, 2, 0, 8, 1, 0, 11, 10,
		6, 13, 5, 1, 9, 3, 4, 15, 14, 5, 7, 14, 13, 12, 8, 4,
	}
	hfHeaderHop3 = []uint8{
		7, 11, 9, 6, 2, 8, 0, 10, 13, 1, 3, 15, 5, 14, 12, 4,
	}
	hfHeaderHop1 = []uint8{
		7, 9, 12, 4, 6, 11, 14, 5, 0, 15, 3, 13, 2, 8, 1, 10,
	}
)

var pattern3 = [ThreeBitChips]uint8{
	0, 0, 0, 1, 0, 1, 1, 0, 0, 0, 1, 0, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 0, 1, 0, 1, 1, 0, 1, 0, 1, 1,
	0, 1, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1, 1, 1, 0, 0, 1, 1, 0, 0,
	0, 0, 1, 1, 1, 1, 0, 1, 1, 1, 0, 0, 0, 0, 0, 1, 0, 1, 1, 0, 0, 1, 0, 1, 0, 0, 1, 1, 1, 1, 0, 1,
	0, 1, 0, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 1, 0, 1, 1, 0, 0, 0, 0, 0,
	1, 1, 1, 0, 0, 1, 0, 1, 0, 0, 0, 1, 1, 0, 1, 1, 1, 0, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 1, 0, 1,
	0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 1, 0, 0, 1, 1, 0, 1, 0, 1, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1,
	0, 1, 1, 1, 1, 1, 1, 0, 1, 1, 0, 0, 1, 1, 1, 1, 0, 0, 1, 0, 1, 0, 1, 1, 0, 1, 1, 0, 0, 0, 1, 0,
	0, 1, 1, 0, 0, 0, 1, 1, 0, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 1, 1, 0, 1, 1, 0, 0,
}

var pattern1 = [OneBitChips]uint8{
	1, 1, 1, 0, 1, 1, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 1, 0, 0, 1, 1, 1, 0,
	1, 1, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 0,
	0, 1, 1, 0, 1, 1, 0, 1, 1, 0, 1, 1, 0, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 1, 0, 1, 0, 1, 1,
	0, 0, 1, 0, 1, 1, 1, 1, 1, 0, 1, 1, 1, 1, 1, 0, 1, 1, 1, 1, 0, 1, 0, 0, 1, 1, 1, 1, 1, 0, 1, 1,
	1, 1, 1, 1, 0, 0, 1, 1, 0, 1, 1, 0, 1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 0, 0,
}
