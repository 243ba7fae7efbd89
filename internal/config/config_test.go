package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apitier-generator/internal/registry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "apitier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	d := Defaults()
	assert.Empty(t, cfg.Registry)
	assert.Empty(t, cfg.Headers)
	assert.Equal(t, d.OutputDir, cfg.OutputDir)
	assert.Equal(t, d.Tiers, cfg.Tiers)
	assert.Equal(t, d.Banner, cfg.Banner)
	assert.Equal(t, d.Scan, cfg.Scan)
	assert.Equal(t, d.Watch, cfg.Watch)
	require.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `registry: registry.yaml
headers:
  - include/unicode
output_dir: /abs/out
macro_prefix: U_
tiers: [draft, internal]
files:
  internal: uinternal.h
banner: false
scan:
  workers: 2
watch:
  debounce: 1s
`)
	dir := filepath.Dir(path)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Registry:    filepath.Join(dir, "registry.yaml"),
		Headers:     []string{filepath.Join(dir, "include", "unicode")},
		OutputDir:   "/abs/out",
		MacroPrefix: "U_",
		Tiers:       []string{"draft", "internal"},
		Files:       map[string]string{"internal": "uinternal.h"},
		Banner:      false,
		Scan:        ScanConfig{Workers: 2},
		Watch:       WatchConfig{Debounce: time.Second},
	}, cfg)

	files, err := cfg.FileNames()
	require.NoError(t, err)
	assert.Equal(t, "uinternal.h", files[registry.TierInternal])
	assert.Equal(t, "udraft.h", files[registry.TierDraft])
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APITIER_MACRO_PREFIX", "U_")
	t.Setenv("APITIER_WATCH_DEBOUNCE", "2s")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "U_", cfg.MacroPrefix)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   []string
	}{
		{
			name:   "misspelled tier",
			mutate: func(c *Config) { c.Tiers = []string{"drfat"} },
			want:   []string{`tiers: unknown tier "drfat" (did you mean "draft"?)`},
		},
		{
			name:   "stable tier",
			mutate: func(c *Config) { c.Tiers = []string{"Stable"} },
			want:   []string{"tiers: tier stable cannot be hidden"},
		},
		{
			name:   "no tiers",
			mutate: func(c *Config) { c.Tiers = nil },
			want:   []string{"at least one tier"},
		},
		{
			name:   "file with directory",
			mutate: func(c *Config) { c.Files = map[string]string{"draft": "unicode/udraft.h"} },
			want:   []string{`files: draft: "unicode/udraft.h" must be a plain file name`},
		},
		{
			name: "several problems",
			mutate: func(c *Config) {
				c.MacroPrefix = "9U"
				c.Scan.Workers = 0
				c.Watch.Debounce = -time.Second
			},
			want: []string{"macro_prefix", "scan.workers", "watch.debounce"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			for _, want := range tt.want {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestGeneratorConfig(t *testing.T) {
	cfg := Defaults()
	cfg.MacroPrefix = "U_"
	cfg.Banner = false

	g, err := cfg.GeneratorConfig()
	require.NoError(t, err)

	assert.Equal(t, "U_", g.MacroPrefix)
	assert.False(t, g.Banner)
	assert.Equal(t, "udraft.h", g.Files[registry.TierDraft])
}
