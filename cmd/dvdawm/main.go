// SPDX-License-Identifier: EPL-2.0

// Command dvdawm scans audio files for the DVD-Audio copy-control watermark.
//
//	dvdawm [flags] file...
//
// Detections go to stdout, as text lines on a terminal and JSON lines
// otherwise. Diagnostics go to stderr. The exit status is 0 when every file
// was scanned, 1 when any failed and 2 on usage errors.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ik5/dvdawm/internal/config"
)

const (
	exitOK = iota
	exitFailed
	exitUsage
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, isTerminal(os.Stdout))
	stop()
	os.Exit(code)
}

func isTerminal(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

type flags struct {
	set        *pflag.FlagSet
	configPath string
	cfg        config.Config
	logDir     string
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	f := &flags{set: pflag.NewFlagSet("dvdawm", pflag.ContinueOnError)}
	fs := f.set
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: dvdawm [flags] file...")
		fs.PrintDefaults()
	}

	def := config.Default()
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file.")
	fs.StringVar(&f.cfg.Log.Level, "log-level", def.Log.Level, "Log level: debug, info, warn, error.")
	fs.StringVar(&f.cfg.Log.Format, "log-format", def.Log.Format, "Log format: text, json, logfmt.")
	fs.StringVarP(&f.cfg.Output, "output", "o", "", "Detection output: text or json. Default depends on the terminal.")
	fs.BoolVarP(&f.cfg.Trace, "trace", "t", false, "Print assembler tallies with every detection.")
	fs.BoolVarP(&f.cfg.Downmix, "downmix", "m", false, "Average all channels before scanning.")
	fs.IntVarP(&f.cfg.Resample, "resample", "r", 0, "Resample input to this rate first. 0 converts unsupported rates only.")
	fs.IntVarP(&f.cfg.Workers, "workers", "j", def.Workers, "Files scanned in parallel.")
	fs.StringVar(&f.cfg.MemLimit, "memory-limit", def.MemLimit, "Per-file detector memory limit, e.g. 16MiB. 0 disables.")
	fs.StringVarP(&f.logDir, "log-dir", "l", "", "Append detections to daily CSV files in this directory.")
	fs.StringVar(&f.cfg.Detection.Pattern, "log-pattern", def.Detection.Pattern, "strftime pattern of the CSV file names.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return f, nil
}

// resolve loads the config file and applies the flags that were set on the
// command line over it.
func (f *flags) resolve() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}

	override := map[string]func(){
		"log-level":    func() { cfg.Log.Level = f.cfg.Log.Level },
		"log-format":   func() { cfg.Log.Format = f.cfg.Log.Format },
		"output":       func() { cfg.Output = f.cfg.Output },
		"trace":        func() { cfg.Trace = f.cfg.Trace },
		"downmix":      func() { cfg.Downmix = f.cfg.Downmix },
		"resample":     func() { cfg.Resample = f.cfg.Resample },
		"workers":      func() { cfg.Workers = f.cfg.Workers },
		"memory-limit": func() { cfg.MemLimit = f.cfg.MemLimit },
		"log-dir":      func() { cfg.Detection.Dir = f.logDir },
		"log-pattern":  func() { cfg.Detection.Pattern = f.cfg.Detection.Pattern },
	}
	f.set.Visit(func(fl *pflag.Flag) {
		if fn, ok := override[fl.Name]; ok {
			fn()
		}
	})

	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, cfg config.LogConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	formatter := log.TextFormatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		Prefix:          "dvdawm",
	}), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, tty bool) int {
	f, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	cfg, err := f.resolve()
	if err != nil {
		fmt.Fprintln(stderr, "dvdawm:", err)
		return exitUsage
	}

	logger, err := newLogger(stderr, cfg.Log)
	if err != nil {
		fmt.Fprintln(stderr, "dvdawm:", err)
		return exitUsage
	}

	files := f.set.Args()
	if len(files) == 0 {
		f.set.Usage()
		return exitUsage
	}

	if cfg.Output == "" {
		cfg.Output = "json"
		if tty {
			cfg.Output = "text"
		}
	}

	sc, err := newScanner(cfg, logger, stdout)
	if err != nil {
		logger.Error("cannot start", "err", err)
		return exitFailed
	}

	sum := sc.scanAll(ctx, files)
	if err := sc.close(); err != nil {
		logger.Error("closing detection log", "err", err)
		sum.failed++
	}
	sum.log(logger)

	if sum.failed > 0 || ctx.Err() != nil {
		return exitFailed
	}

	return exitOK
}
