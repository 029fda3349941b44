// Package cli provides the Cobra command structure for linecore.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/linecore/internal/config"
	"github.com/dshills/linecore/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags holds flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
}

// loadConfig reads the --config file, or the defaults when none is given,
// with environment overrides applied.
func (g *globalFlags) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return config.Config{}, err
	}
	if g.debug {
		cfg.Logging.Level = "debug"
	}
	logging.SetLevel(cfg.Logging.Level)
	return cfg, nil
}

// NewRootCommand creates the root linecore command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "linecore",
		Short: "A line-oriented text editing core",
		Long: `linecore is a text editing core: a rope-backed document with
multi-cursor selections, undo history and line invalidation tracking,
driven by JSON requests.

Use "replay" to run a stream of requests against a document and "view" to
edit a file in the terminal.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flags.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file (.toml or .yaml)")

	// Add subcommands.
	rootCmd.AddCommand(newReplayCommand(flags))
	rootCmd.AddCommand(newViewCommand(flags))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
