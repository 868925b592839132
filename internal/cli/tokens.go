package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alphaswap/alphaswap/internal/tokens"
	"github.com/alphaswap/alphaswap/internal/tokenstore"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Manage the local token cache",
	}
	cmd.AddCommand(newTokensRefreshCmd())
	return cmd
}

func newTokensRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the token list and rewrite the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store := tokenstore.New(cfg.TokenStore.Path, log)
			refresher := tokens.NewRefresher(store, cfg.CowSwap.TokenListURL, log)
			if err := refresher.Refresh(ctx); err != nil {
				return fmt.Errorf("token refresh failed: %w", err)
			}
			fmt.Println("Token lists refreshed")
			return nil
		},
	}
}
