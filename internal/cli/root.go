// Package cli wires the alphaswap command tree.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alphaswap/alphaswap/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	log *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alphaswap",
		Short: "AlphaSwap chat-driven token swap backend",
		Long:  "AlphaSwap is a backend that turns chat conversations into token swaps, quoting and routing orders through the CoW Protocol order book.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Optional .env in the working directory, matching local dev setups.
			_ = godotenv.Load()

			level := logLevel
			if level == "" {
				level = "info"
			}
			log = logging.New(nil, level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServerCmd())
	cmd.AddCommand(newTokensCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
