// SPDX-License-Identifier: EPL-2.0

package dvdawm_test

import (
	"context"
	"fmt"

	"github.com/ik5/dvdawm"
	"github.com/ik5/dvdawm/audio"
	"github.com/ik5/dvdawm/internal/synth"
	"github.com/ik5/dvdawm/internal/wm"
)

func watermarked(rate int) []float32 {
	packet := synth.ThreeBit([3]uint8{1, 0, 0}, [8]uint8{})

	return synth.NewLF(rate, wm.ThreeBit).Render(synth.Stream(75, [][]synth.Chip{packet}, 40))
}

func ExampleScan() {
	src := audio.NewSliceSource(44100, 1, watermarked(44100))

	res, err := dvdawm.Scan(context.Background(), src, dvdawm.ScanOptions{})
	if err != nil {
		fmt.Println("scan:", err)
		return
	}

	for _, d := range res.Detections {
		fmt.Println(d)
	}
	// Output:
	// [00:00:01.00095] - Watermark on ch 1 - LF 3/8 BIT [100000000000] - Tempo +0.000
}

func ExampleDetector_Run() {
	det, err := dvdawm.New(1, 44100, dvdawm.WithHandler(func(d dvdawm.Detection) {
		fmt.Println(d.Band, d.Payload, d.CCI)
	}))
	if err != nil {
		fmt.Println("new:", err)
		return
	}

	n := det.Run(watermarked(44100))
	fmt.Println("detections:", n)
	// Output:
	// LF 3/8 BIT 100000000000
	// detections: 1
}
