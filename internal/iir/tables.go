// SPDX-License-Identifier: EPL-2.0

package iir

// Table is a set of IIR coefficients: B is the feed-forward side, A the feedback side
// with A[0] == 1. Both slices have the same length (order + 1).
type Table struct {
	Name string
	B    []float32
	A    []float32
}

// Order returns the filter order.
func (t Table) Order() int { return len(t.B) - 1 }

// 10th order Butterworth band-pass, 4.3-7.7 kHz (LF watermark band).
var (
	lowBand44100 = Table{
		Name: "bandpass 4300-7700 Hz @ 44100",
		B: []float32{
			0.0004163025518237, 0.0, -0.002081512759119, 0.0, 0.004163025518237, 0.0,
			-0.004163025518237, 0.0, 0.002081512759119, 0.0, -0.0004163025518237,
		},
		A: []float32{
			1.0, -5.703636393139, 16.52982883408, -31.03245515879, 41.4515481478, -40.90749785361,
			30.18121888965, -16.44510003959, 6.372285803894, -1.599120231069, 0.2045536253525,
		},
	}

	lowBand48000 = Table{
		Name: "bandpass 4300-7700 Hz @ 48000",
		B: []float32{
			0.0002865588492895, 0.0, -0.001432794246447, 0.0, 0.002865588492895, 0.0,
			-0.002865588492895, 0.0, 0.001432794246447, 0.0, -0.0002865588492895,
		},
		A: []float32{
			1.0, -6.208051380161, 19.05969756673, -37.35232069317, 51.40011290093, -51.6806785122,
			38.41514894615, -20.85943250948, 7.951410994504, -1.934926986048, 0.2333594148628,
		},
	}
)

// 10th order Butterworth band-pass, 8.3-15.7 kHz (HF watermark band).
var (
	highBand44100 = Table{
		Name: "bandpass 8300-15700 Hz @ 44100",
		B: []float32{
			0.01090482202178, 0.0, -0.0545241101089, 0.0, 0.1090482202178, 0.0,
			-0.1090482202178, 0.0, 0.0545241101089, 0.0, -0.01090482202178,
		},
		A: []float32{
			1.0, 1.061029232537, 2.085709238093, 1.643448240378, 2.123236142965, 1.217285392915,
			1.068444722412, 0.4187826454186, 0.2744346611499, 0.05718013289234, 0.02650010102885,
		},
	}

	highBand48000 = Table{
		Name: "bandpass 8300-15700 Hz @ 48000",
		B: []float32{
			0.007748366833266, 0.0, -0.03874183416633, 0.0, 0.07748366833266, 0.0,
			-0.07748366833266, 0.0, 0.03874183416633, 0.0, -0.007748366833266,
		},
		A: []float32{
			1.0, 1.33226762955e-015, 1.893046609949, -3.330669073875e-016, 1.899040522374,
			-1.165734175856e-015, 1.021369436262, -7.632783294298e-016, 0.3002058061654,
			-1.457167719821e-016, 0.03688254366439,
		},
	}
)

// 3rd order elliptic low-pass (Fpass = 3/16 Fs, Apass = 1 dB, Astop = 40 dB) used before
// dropping samples.
var (
	decimate2 = Table{
		Name: "elliptic lowpass, decimate by 2",
		B:    []float32{0.08593663175118, 0.1796307156959, 0.1796307156959, 0.08593663175118},
		A:    []float32{1.0, -1.110506450058, 0.9562857674792, -0.314644622527},
	}

	decimate4 = Table{
		Name: "elliptic lowpass, decimate by 4",
		B:    []float32{0.02503047314044, 0.01620059189618, 0.01620059189618, 0.02503047314044},
		A:    []float32{1.0, -2.20093778027, 1.846543057758, -0.5631431474152},
	}
)

// Tables returns every coefficient table, for inspection and tests.
func Tables() []Table {
	return []Table{lowBand44100, lowBand48000, highBand44100, highBand48000, decimate2, decimate4}
}
