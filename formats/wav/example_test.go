// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/dvdawm/audio"
	"github.com/ik5/dvdawm/formats/wav"
)

func Example() {
	var file bytes.Buffer
	samples := []float32{0, 0.5, -0.5, 0.25, -0.25, 0}
	if err := wav.Write(&file, 48000, 2, 16, samples); err != nil {
		fmt.Println("write:", err)
		return
	}

	src, err := wav.Decoder{}.Decode(&file)
	if err != nil {
		fmt.Println("decode:", err)
		return
	}

	got, err := audio.ReadAll(src, 1024)
	if err != nil {
		fmt.Println("read:", err)
		return
	}

	fmt.Printf("%d Hz, %d channels, %d samples\n", src.SampleRate(), src.Channels(), len(got))
	// Output:
	// 48000 Hz, 2 channels, 6 samples
}
