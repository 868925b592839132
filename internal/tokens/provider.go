// Package tokens provides the token list provider, the symbol-to-address
// resolver, and the admin refresher that pulls the canonical CoW token list.
package tokens

import (
	"github.com/alphaswap/alphaswap/internal/domain"
	"github.com/alphaswap/alphaswap/internal/logging"
	"github.com/alphaswap/alphaswap/internal/tokenstore"
)

// Protocol is the token-store key the provider reads from.
const Protocol = "cowswap"

// Provider serves token lists from the local store. Lookups that fail are
// logged and return an empty list; the chat flow must keep working with a
// cold or corrupt cache.
type Provider struct {
	store *tokenstore.Store
	log   *logging.Logger
}

// NewProvider creates a provider over the given store.
func NewProvider(store *tokenstore.Store, log *logging.Logger) *Provider {
	return &Provider{store: store, log: log.Sub("tokens")}
}

// Tokens returns the cached token list for a chain, or nil when the cache
// is empty or unreadable.
func (p *Provider) Tokens(chainID int64) []domain.Token {
	tokens, err := p.store.Get(Protocol, chainID)
	if err != nil {
		p.log.Error().Err(err).Int64("chainId", chainID).Msg("failed to read token store")
		return nil
	}
	if len(tokens) == 0 {
		p.log.Warn().Int64("chainId", chainID).Msg("no tokens cached for chain")
	}
	return tokens
}
