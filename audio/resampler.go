// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/dvdawm/utils"
)

// Resampler converts src to another sample rate with Catmull-Rom
// interpolation. Channel count is preserved. When downsampling a one-pole
// low-pass runs ahead of the interpolator.
type Resampler struct {
	src      Source
	channels int
	dstRate  int
	step     float64 // source frames per output frame

	// win[1] and win[2] bracket the output position; avail is the index of
	// the last window frame that came from the source.
	win    [4][]float32
	avail  int
	pos    float64
	primed bool

	in     []float32
	inPos  int
	inLen  int
	eof    bool

	alpha float32
	lp    []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	ch := src.Channels()
	r := &Resampler{
		src:      src,
		channels: ch,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		in:       make([]float32, max(src.BufSize(), 1024)/ch*ch),
		lp:       make([]float32, ch),
	}
	if r.step > 1 {
		r.alpha = 0.5
	}
	for i := range r.win {
		r.win[i] = make([]float32, ch)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: %w", err)
	}

	return nil
}

func (r *Resampler) next(dst []float32) (bool, error) {
	for r.inPos >= r.inLen {
		if r.eof {
			return false, nil
		}
		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("resampler: %w", err)
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.alpha > 0 {
		for c := range dst {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.lp[c]
			r.lp[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.next(r.win[1])
	if err != nil {
		return err
	}
	if !ok {
		r.avail = 0
		return nil
	}
	if r.alpha > 0 {
		// settle the low-pass on the first frame
		copy(r.lp, r.win[1])
	}
	copy(r.win[0], r.win[1])
	r.avail = 1

	for i := 2; i < 4; i++ {
		ok, err := r.next(r.win[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.win[i], r.win[i-1])
			continue
		}
		r.avail = i
	}

	return nil
}

func (r *Resampler) advance() error {
	w := r.win[0]
	r.win[0], r.win[1], r.win[2] = r.win[1], r.win[2], r.win[3]
	r.win[3] = w

	ok, err := r.next(r.win[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.win[3], r.win[2])
		r.avail--
	}

	return nil
}

// ReadSamples produces interleaved samples at the target rate. len(dst) must
// be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	n := 0
	for n+r.channels <= len(dst) {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return n, err
			}
		}
		if r.avail < 1 {
			break
		}

		x := float32(r.pos)
		for c := range r.channels {
			dst[n+c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], x)
		}
		n += r.channels
		r.pos += r.step
	}

	if r.avail < 1 {
		return n, io.EOF
	}

	return n, nil
}
