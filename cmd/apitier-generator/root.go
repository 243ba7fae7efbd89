package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"apitier-generator/internal/config"
	"apitier-generator/internal/logging"
)

// app is the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool

	// bindErr collects flag binding failures; setup reports them.
	bindErr error

	cfg    config.Config
	logger *zap.Logger
}

// errNoInput is returned when neither a manifest nor headers are configured.
var errNoInput = errors.New("no registry input: set registry or headers")

// bindFlag binds the flag name of flags to the viper key.
func (a *app) bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
		a.bindErr = errors.Join(a.bindErr, fmt.Errorf("binding --%s to %s: %w", name, key, err))
	}
}

func newRootCmd(version string) *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "apitier-generator",
		Short: "Generate headers that hide unstable C API symbols",
		Long: `apitier-generator reads a registry of exported C symbols and their
stability tiers and writes headers that, when a tier's hide macro is defined,
redirect every symbol of that tier to an unusable name so that code still
calling it fails to link.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./apitier.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringP("registry", "r", "", "registry manifest (YAML)")
	flags.StringSlice("headers", nil, "annotated headers: files, directories or globs")
	flags.StringP("output-dir", "o", "", "directory the headers are written to")
	flags.String("macro-prefix", "", `prefix of the generated macros, e.g. "U_"`)
	flags.StringSlice("tiers", nil, "tiers to hide: draft, internal, deprecated, obsolete")
	flags.Bool("banner", true, "write the generated-file banner")
	flags.Int("workers", 0, "number of headers scanned concurrently")

	for key, flag := range map[string]string{
		"registry":     "registry",
		"headers":      "headers",
		"output_dir":   "output-dir",
		"macro_prefix": "macro-prefix",
		"tiers":        "tiers",
		"banner":       "banner",
		"scan.workers": "workers",
	} {
		a.bindFlag(flags, key, flag)
	}

	root.AddCommand(
		newGenCmd(a),
		newCheckCmd(a),
		newScanCmd(a),
		newListCmd(a),
		newExplainCmd(a),
		newWatchCmd(a),
	)

	return root
}

func (a *app) setup(*cobra.Command, []string) error {
	if a.bindErr != nil {
		return a.bindErr
	}

	logger, err := logging.New(a.verbose)
	if err != nil {
		return err
	}

	a.logger = logger

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("loaded config", zap.String("path", used))
	}

	return nil
}
