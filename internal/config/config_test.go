// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dvdawm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Zero(t, cfg.MemoryLimit())
	assert.Equal(t, "dvdawm-%Y-%m-%d.csv", cfg.Detection.Pattern)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
log:
  level: DEBUG
  format: json
output: json
trace: true
downmix: true
resample: 48000
workers: 3
memory_limit: 64MiB
detection_log:
  dir: /var/log/dvdawm
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "json", cfg.Output)
	assert.True(t, cfg.Trace)
	assert.True(t, cfg.Downmix)
	assert.Equal(t, 48000, cfg.Resample)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, uint64(64<<20), cfg.MemoryLimit())
	assert.Equal(t, "/var/log/dvdawm", cfg.Detection.Dir)
	assert.Equal(t, "dvdawm-%Y-%m-%d.csv", cfg.Detection.Pattern)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Load(writeConfig(t, "log: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "level", mutate: func(c *Config) { c.Log.Level = "loud" }, want: ErrInvalidLogLevel},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, want: ErrInvalidFormat},
		{name: "output", mutate: func(c *Config) { c.Output = "csv" }, want: ErrInvalidFormat},
		{name: "resample", mutate: func(c *Config) { c.Resample = 32000 }, want: ErrInvalidResample},
		{name: "workers", mutate: func(c *Config) { c.Workers = -1 }, want: ErrInvalidWorkers},
		{name: "memory", mutate: func(c *Config) { c.MemLimit = "lots" }, want: ErrInvalidMemLimit},
		{name: "pattern", mutate: func(c *Config) { c.Detection = DetectionConfig{Dir: "/tmp"} }, want: ErrMissingLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidateFillsBlanks(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Positive(t, cfg.Workers)
}
