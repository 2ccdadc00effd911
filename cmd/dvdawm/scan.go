// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/dvdawm"
	"github.com/ik5/dvdawm/audio"
	"github.com/ik5/dvdawm/formats/aiff"
	"github.com/ik5/dvdawm/formats/mp3"
	"github.com/ik5/dvdawm/formats/vorbis"
	"github.com/ik5/dvdawm/formats/wav"
	"github.com/ik5/dvdawm/internal/config"
	"github.com/ik5/dvdawm/internal/detlog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func registry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{}, "wav", "wave")
	r.Register("aiff", aiff.Decoder{}, "aif", "aiff")
	r.Register("mp3", mp3.Decoder{}, "mp3")
	r.Register("vorbis", vorbis.Decoder{}, "ogg", "oga")

	return r
}

// jsonLine is one detection in JSON lines output.
type jsonLine struct {
	File string `json:"file"`
	ID   string `json:"id"`
	dvdawm.Detection
}

type scanner struct {
	cfg  config.Config
	log  *log.Logger
	reg  *audio.Registry
	dlog *detlog.Log

	mu  sync.Mutex
	out io.Writer
}

func newScanner(cfg config.Config, logger *log.Logger, out io.Writer) (*scanner, error) {
	sc := &scanner{cfg: cfg, log: logger, reg: registry(), out: out}
	if cfg.Detection.Dir != "" {
		dl, err := detlog.New(cfg.Detection.Dir, cfg.Detection.Pattern)
		if err != nil {
			return nil, err
		}
		sc.dlog = dl
		logger.Debug("detection log enabled", "path", dl.Path())
	}

	return sc, nil
}

func (sc *scanner) close() error {
	if sc.dlog == nil {
		return nil
	}

	return sc.dlog.Close()
}

type summary struct {
	files       int
	failed      int
	watermarked int
	detections  int
	frames      int64
	duration    time.Duration
}

func (s summary) log(l *log.Logger) {
	l.Info("scan complete",
		"files", humanize.Comma(int64(s.files)),
		"watermarked", humanize.Comma(int64(s.watermarked)),
		"detections", humanize.Comma(int64(s.detections)),
		"failed", s.failed,
		"frames", humanize.Comma(s.frames),
		"audio", s.duration.Round(time.Millisecond),
	)
}

type fileResult struct {
	res dvdawm.ScanResult
	err error
}

// scanAll scans files on at most cfg.Workers goroutines. A failing file does
// not stop the others.
func (sc *scanner) scanAll(ctx context.Context, files []string) summary {
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sc.cfg.Workers)
	for i, path := range files {
		g.Go(func() error {
			res, err := sc.scanFile(gctx, path)
			results[i] = fileResult{res: res, err: err}

			return nil
		})
	}
	_ = g.Wait()

	sum := summary{files: len(files)}
	for i, r := range results {
		sum.frames += r.res.Frames
		sum.duration += r.res.Duration
		sum.detections += len(r.res.Detections)
		if r.res.Watermarked() {
			sum.watermarked++
		}
		if r.err != nil {
			sum.failed++
			sc.log.Error("scan failed", "file", files[i], "err", r.err)
		}
	}

	return sum
}

func (sc *scanner) scanFile(ctx context.Context, path string) (dvdawm.ScanResult, error) {
	format, dec, err := sc.reg.Lookup(path)
	if err != nil {
		return dvdawm.ScanResult{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return dvdawm.ScanResult{}, err
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return dvdawm.ScanResult{}, fmt.Errorf("decode %s: %w", format, err)
	}
	defer src.Close()

	logger := sc.log.With("file", path)
	logger.Debug("scanning", "format", format, "rate", src.SampleRate(), "channels", src.Channels())

	res, err := dvdawm.Scan(ctx, src, dvdawm.ScanOptions{
		Downmix:    sc.cfg.Downmix,
		ResampleTo: sc.cfg.Resample,
		Handler:    func(d dvdawm.Detection) { sc.emit(path, d) },
		Options: []dvdawm.Option{
			dvdawm.WithLogger(logger),
			dvdawm.WithTrace(sc.cfg.Trace),
			dvdawm.WithMemoryLimit(sc.cfg.MemoryLimit()),
		},
	})
	if res.Resampled {
		logger.Debug("resampled", "from", src.SampleRate(), "to", res.SampleRate)
	}
	if size, ferr := dvdawm.Footprint(res.Channels, res.SampleRate); ferr == nil {
		logger.Debug("detector footprint", "size", humanize.IBytes(size))
	}
	if err != nil {
		return res, err
	}

	if res.Watermarked() {
		logger.Warn("watermark found", "detections", len(res.Detections), "duration", res.Duration.Round(time.Millisecond))
	} else {
		logger.Info("no watermark", "duration", res.Duration.Round(time.Millisecond))
	}

	return res, nil
}

// emit prints one detection and appends it to the detection log. Calls from
// different files are serialized so that lines never interleave.
func (sc *scanner) emit(path string, d dvdawm.Detection) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	switch sc.cfg.Output {
	case "json":
		buf, err := json.Marshal(jsonLine{File: path, ID: d.ID(), Detection: d})
		if err != nil {
			sc.log.Error("encode detection", "err", err)
			break
		}
		buf = append(buf, '\n')
		if _, err := sc.out.Write(buf); err != nil {
			sc.log.Error("write detection", "err", err)
		}
	default:
		fmt.Fprintf(sc.out, "%s: %s\n", path, d.Report())
	}

	if sc.dlog != nil {
		if err := sc.dlog.Write(path, d); err != nil {
			sc.log.Error("detection log", "err", err)
		}
	}
}
