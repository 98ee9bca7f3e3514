package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/working-day-service/internal/config"
	"github.com/username/working-day-service/internal/logging"
)

type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "workingday",
		Short:         "Working day calculator",
		Long:          "Answer working day questions by combining weekday rules, holiday files, HTTP calendars and public holiday feeds",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (default: search ./config.yaml, $HOME/.workingday, /etc/workingday)")

	rootCmd.AddCommand(
		checkCmd(a),
		nextCmd(a),
		prevCmd(a),
		addCmd(a),
		subtractCmd(a),
		watchCmd(a),
	)

	return rootCmd
}
