package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alphaswap/alphaswap/internal/agent"
	"github.com/alphaswap/alphaswap/internal/chain"
	"github.com/alphaswap/alphaswap/internal/config"
	"github.com/alphaswap/alphaswap/internal/llm"
	"github.com/alphaswap/alphaswap/internal/logging"
	"github.com/alphaswap/alphaswap/internal/orderbook"
	"github.com/alphaswap/alphaswap/internal/server"
	"github.com/alphaswap/alphaswap/internal/tokens"
	"github.com/alphaswap/alphaswap/internal/tokenstore"
)

func newServerCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the AlphaSwap HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("bind") {
				cfg.Server.Bind = bind
			}
			if logLevel == "" && cfg.Logging.Level != "" {
				log = logging.New(nil, cfg.Logging.Level)
			}

			if issues := config.Validate(&cfg); len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store := tokenstore.New(cfg.TokenStore.Path, log)
			provider := tokens.NewProvider(store, log)
			resolver := tokens.NewResolver(provider)
			refresher := tokens.NewRefresher(store, cfg.CowSwap.TokenListURL, log)

			var agentSvc *agent.Service
			if cfg.Gemini.APIKey == "" {
				log.Warn().Msg("GEMINI_API_KEY not set, chat endpoint disabled")
			} else {
				gemini, err := llm.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
				if err != nil {
					return err
				}
				agentSvc = agent.NewService(gemini, provider, log)
			}

			dispatcher := agent.NewDispatcher(
				resolver,
				provider,
				func(chainID int64) (agent.QuoteGateway, error) {
					return orderbook.NewClient(chainID, log)
				},
				func(network string) (agent.BalanceSource, error) {
					return chain.NewBalanceReader(cfg.RPC.URLForNetwork(network), log)
				},
				log,
			)

			srv := server.New(cfg, log, agentSvc, dispatcher, provider, refresher)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override the listen port")
	cmd.Flags().StringVar(&bind, "bind", "", "override the bind mode (loopback, lan, custom)")

	return cmd
}

// loadConfig reads the config file named by --config, falling back to
// config.yaml in the working directory.
func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		path = "config.yaml"
	}
	return config.Load(path)
}
