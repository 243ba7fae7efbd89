// Package config provides configuration types and defaults for
// apitier-generator.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"apitier-generator/internal/common"
	"apitier-generator/internal/gen"
	"apitier-generator/internal/plan"
	"apitier-generator/internal/registry"
)

// EnvPrefix prefixes environment overrides: APITIER_OUTPUT_DIR, APITIER_WATCH_DEBOUNCE.
const EnvPrefix = "APITIER"

// Config holds all configuration options for apitier-generator.
type Config struct {
	Registry    string            `mapstructure:"registry"`     // YAML manifest path
	Headers     []string          `mapstructure:"headers"`      // globs or directories of annotated headers
	OutputDir   string            `mapstructure:"output_dir"`   // where headers are written
	MacroPrefix string            `mapstructure:"macro_prefix"` // e.g. "U_"
	Tiers       []string          `mapstructure:"tiers"`        // tiers to hide
	Files       map[string]string `mapstructure:"files"`        // tier -> header file name
	Banner      bool              `mapstructure:"banner"`
	Scan        ScanConfig        `mapstructure:"scan"`
	Watch       WatchConfig       `mapstructure:"watch"`
}

// ScanConfig holds header scanner options.
type ScanConfig struct {
	Workers int `mapstructure:"workers"`
}

// WatchConfig holds watch mode options.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		OutputDir: ".",
		Tiers:     []string{registry.TierDraft.String()},
		Banner:    true,
		Scan:      ScanConfig{Workers: 4},
		Watch:     WatchConfig{Debounce: 300 * time.Millisecond},
	}
}

// SetDefaults registers Defaults on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("registry", d.Registry)
	v.SetDefault("headers", d.Headers)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("macro_prefix", d.MacroPrefix)
	v.SetDefault("tiers", d.Tiers)
	v.SetDefault("banner", d.Banner)
	v.SetDefault("scan.workers", d.Scan.Workers)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// Load reads configuration into a Config. cfgFile is optional; without it
// apitier.yaml is looked up in the current directory and its absence is not
// an error. When a config file is used, relative paths are resolved against its
// directory.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("apitier")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		cfg.resolvePaths(filepath.Dir(used))
	}

	return cfg, nil
}

func (c *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}

		return filepath.Join(base, p)
	}

	c.Registry = abs(c.Registry)
	c.OutputDir = abs(c.OutputDir)

	for i, h := range c.Headers {
		c.Headers[i] = abs(h)
	}
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() error {
	var errs []error

	if _, err := c.EmitTiers(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.FileNames(); err != nil {
		errs = append(errs, err)
	}

	if c.MacroPrefix != "" && !common.IsCIdent(c.MacroPrefix) {
		errs = append(errs, fmt.Errorf("macro_prefix %q is not a valid identifier", c.MacroPrefix))
	}

	if c.Scan.Workers < 1 {
		errs = append(errs, fmt.Errorf("scan.workers must be at least 1, got %d", c.Scan.Workers))
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}

	return errors.Join(errs...)
}

// EmitTiers parses Tiers. Only tiers with a hiding policy are accepted.
func (c Config) EmitTiers() ([]registry.Tier, error) {
	if len(c.Tiers) == 0 {
		return nil, errors.New("tiers: at least one tier is required")
	}

	tiers := make([]registry.Tier, 0, len(c.Tiers))

	for _, name := range c.Tiers {
		t, err := parseHideable(name)
		if err != nil {
			return nil, fmt.Errorf("tiers: %w", err)
		}

		tiers = append(tiers, t)
	}

	return tiers, nil
}

// FileNames parses Files into generator file names.
func (c Config) FileNames() (map[registry.Tier]string, error) {
	files := gen.DefaultFiles()

	for _, key := range common.SortedKeys(c.Files) {
		t, err := parseHideable(key)
		if err != nil {
			return nil, fmt.Errorf("files: %w", err)
		}

		name := c.Files[key]
		if name == "" || name != filepath.Base(name) {
			return nil, fmt.Errorf("files: %s: %q must be a plain file name", key, name)
		}

		files[t] = name
	}

	return files, nil
}

// GeneratorConfig builds the header generator configuration.
func (c Config) GeneratorConfig() (gen.GeneratorConfig, error) {
	files, err := c.FileNames()
	if err != nil {
		return gen.GeneratorConfig{}, err
	}

	g := gen.DefaultGeneratorConfig()
	g.MacroPrefix = c.MacroPrefix
	g.Files = files
	g.Banner = c.Banner

	return g, nil
}

func parseHideable(name string) (registry.Tier, error) {
	t, err := registry.ParseTier(name)
	if err != nil {
		return 0, err
	}

	if _, ok := plan.PolicyFor(t); !ok {
		return 0, fmt.Errorf("tier %s cannot be hidden", t)
	}

	return t, nil
}
