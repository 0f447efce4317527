package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"regionprice/internal/config"
	"regionprice/internal/logger"
)

// cli carries what every subcommand needs after flag parsing.
type cli struct {
	configPath string
	logLevel   string
	cfg        config.Config
	log        *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "regionprice",
		Short:         "Compare an App Store app's price across storefront regions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.logLevel != "" {
				cfg.Logging.Level = c.logLevel
			}
			log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			c.cfg, c.log = cfg, log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (json, yaml or toml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(
		newCompareCmd(c),
		newItemsCmd(c),
		newRegionsCmd(c),
		newServeCmd(c),
		newWatchCmd(c),
	)
	return root
}
