package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/wmconf/internal/config"
	"github.com/dshills/wmconf/internal/logging"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "wmconf",
		Short: "Leader-key bindings, output layout and status clock for a compositor",
		Long: `wmconf is a compositor configuration: a modal leader-key dispatcher,
a two-output arrangement, a wall-clock status line and launchers for the
usual helper programs.

Use "wmconf check" to validate a configuration and "wmconf preview" to try
the bindings in a terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", config.DefaultPath(), "configuration file (.toml or .yaml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the file)")

	root.AddCommand(
		newCheckCmd(g),
		newPreviewCmd(g),
		newVersionCmd(),
	)
	return root
}

// load reads and validates the configuration named by the flags.
func (g *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger builds the logger for cfg writing to w.
func logger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Output = w
	return logging.New(lc), nil
}

func openLog(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
