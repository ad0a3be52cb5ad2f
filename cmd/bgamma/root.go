package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rootOptions struct {
	cfgPath string
	verbose bool

	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "bgamma",
		Short:        "Correlated bivariate Gamma sampler",
		Long:         "Fits a shared-shock decomposition to target means, standard deviations and correlation, then draws correlated Gamma pairs.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgPath, "cfg", "", "path to yaml config")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newGenerateCommand(opts))
	cmd.AddCommand(newFitCommand(opts))
	cmd.AddCommand(newRuleCommand(opts))

	return cmd
}
