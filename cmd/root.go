package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/dietwater/internal/config"
	"github.com/KaramelBytes/dietwater/internal/pipeline"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagBaseDir   string
	flagLogFormat string

	// Loaded configuration
	cfg *cfgpkg.Config
)

var rootCmd = &cobra.Command{
	Use:   "dietwater",
	Short: "dietwater: water-use outliers and food footprints for vegan and vegetarian diets",
	Long: `dietwater labels per-grouping water-use outliers in diet survey results, filters the
food life-cycle table down to the vegan/veggie foods with the largest water footprint,
and renders an animated bubble chart of the labeled survey.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ~/.dietwater/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagBaseDir, "base-dir", "", "directory relative paths are resolved against (default: the executable's directory)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: console or json (overrides config)")
}

func loadConfig(cmd *cobra.Command) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c

	// Apply CLI overrides if provided
	f := cmd.Root().PersistentFlags()
	if f.Changed("base-dir") {
		cfg.BaseDir = flagBaseDir
	}
	if f.Changed("log-format") && flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}
	if debug {
		cfg.Log.Level = "debug"
	}

	if err := cfgpkg.InitLogger(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

// resolvePaths resolves the configured paths for the current command.
func resolvePaths() (pipeline.Paths, error) {
	p, err := pipeline.ResolvePaths(cfg)
	if err != nil {
		return pipeline.Paths{}, err
	}
	zap.L().Debug("resolved paths", zap.String("base_dir", p.Base))
	return p, nil
}
