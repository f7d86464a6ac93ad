package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opd-ai/vjkit/config"
)

// configLoader resolves the effective configuration for a subcommand:
// file, then flag overrides, then logging setup.
type configLoader func() (*config.Config, error)

func newRootCommand() *cobra.Command {
	var configFlag string
	var levelFlag string
	var formatFlag string

	rootCmd := &cobra.Command{
		Use:           "vjkit",
		Short:         "Audio-reactive camera effects pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&levelFlag, "log-level", "", "Log level override (trace through panic)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "log-format", "", "Log format override (text or json)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configFlag)
		if err != nil {
			return nil, err
		}
		if levelFlag != "" {
			cfg.Logging.Level = levelFlag
		}
		if formatFlag != "" {
			cfg.Logging.Format = formatFlag
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if err := configureLogging(cfg.Logging); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	rootCmd.AddCommand(newRunCommand(load))
	rootCmd.AddCommand(newDevicesCommand(load))
	rootCmd.AddCommand(newGradientsCommand(load))

	return rootCmd
}

// configureLogging applies the logging section to the process-wide
// logger.
func configureLogging(cfg config.Logging) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logrus.SetLevel(level)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return nil
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   stderrIsTerminal(),
	})
	return nil
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
