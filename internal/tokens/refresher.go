package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alphaswap/alphaswap/internal/domain"
	"github.com/alphaswap/alphaswap/internal/logging"
	"github.com/alphaswap/alphaswap/internal/tokenstore"
)

// nativeEth is the mainnet native-asset entry prepended during refresh;
// ERC-20 token lists never include it.
var nativeEth = domain.Token{
	ChainID:  domain.MainnetChainID,
	Address:  domain.NativeTokenAddress,
	Name:     "Ether",
	Symbol:   "ETH",
	Decimals: 18,
	LogoURI:  "https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/ethereum/info/logo.png",
}

// sepoliaTestTokens is the fixed test-network token set used when the
// canonical list carries no Sepolia entries.
var sepoliaTestTokens = []domain.Token{
	{
		ChainID:  domain.SepoliaChainID,
		Address:  domain.NativeTokenAddress,
		Name:     "Ether",
		Symbol:   "ETH",
		Decimals: 18,
		LogoURI:  "https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/ethereum/info/logo.png",
	},
	{
		ChainID:  domain.SepoliaChainID,
		Address:  "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14",
		Name:     "Wrapped Ether",
		Symbol:   "WETH",
		Decimals: 18,
		LogoURI:  "https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/ethereum/assets/0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2/logo.png",
	},
	{
		ChainID:  domain.SepoliaChainID,
		Address:  "0xbe72E441BF55620febc26715db68d3494213D8Cb",
		Name:     "USD Coin",
		Symbol:   "USDC",
		Decimals: 6,
		LogoURI:  "https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/ethereum/assets/0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48/logo.png",
	},
	{
		ChainID:  domain.SepoliaChainID,
		Address:  "0xB4F1737Af37711e9A5890D9510c9bB60e170CB0D",
		Name:     "Dai Stablecoin",
		Symbol:   "DAI",
		Decimals: 18,
		LogoURI:  "https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/ethereum/assets/0x6B175474E89094C44Da98b954EedeAC495271d0F/logo.png",
	},
	{
		ChainID:  domain.SepoliaChainID,
		Address:  "0x0625aFB445C3B6B7B929342a04A22599fd5dBB59",
		Name:     "CoW Protocol Token",
		Symbol:   "COW",
		Decimals: 18,
		LogoURI:  "https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/ethereum/assets/0xDEf1CA1fb7FBcDC777520aa7f396b4E015F497aB/logo.png",
	},
	{
		ChainID:  domain.SepoliaChainID,
		Address:  "0xd3f3d46FeBCD4CdAa2B83799b7A5CdcB69d135De",
		Name:     "Gnosis",
		Symbol:   "GNO",
		Decimals: 18,
		LogoURI:  "https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/ethereum/assets/0x6810e776880C02933D47DB1b9fc05908e5386b96/logo.png",
	},
	{
		ChainID:  domain.SepoliaChainID,
		Address:  "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
		Name:     "Uniswap",
		Symbol:   "UNI",
		Decimals: 18,
		LogoURI:  "https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/ethereum/assets/0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984/logo.png",
	},
}

// tokenListResponse is the canonical token-list JSON shape.
type tokenListResponse struct {
	Tokens []domain.Token `json:"tokens"`
}

// Refresher pulls the canonical token list and rewrites the local store.
type Refresher struct {
	store   *tokenstore.Store
	listURL string
	client  *http.Client
	log     *logging.Logger
}

// NewRefresher creates a refresher that fetches listURL.
func NewRefresher(store *tokenstore.Store, listURL string, log *logging.Logger) *Refresher {
	return &Refresher{
		store:   store,
		listURL: listURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.Sub("refresher"),
	}
}

// Refresh downloads the token list, groups it by chain, supplements the
// native mainnet entry and the Sepolia test set, and writes every chain
// to the store. Each chain write is last-writer-wins.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.log.Info().Str("url", r.listURL).Msg("fetching token list")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.listURL, nil)
	if err != nil {
		return fmt.Errorf("building token list request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching token list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token list fetch failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading token list: %w", err)
	}
	var list tokenListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return fmt.Errorf("parsing token list: %w", err)
	}

	byChain := make(map[int64][]domain.Token)
	for _, tok := range list.Tokens {
		byChain[tok.ChainID] = append(byChain[tok.ChainID], tok)
	}

	if mainnet, ok := byChain[domain.MainnetChainID]; ok {
		if domain.FindBySymbol(mainnet, "ETH") == nil {
			byChain[domain.MainnetChainID] = append([]domain.Token{nativeEth}, mainnet...)
		}
	}

	if len(byChain[domain.SepoliaChainID]) == 0 {
		r.log.Info().Msg("token list has no sepolia entries, using built-in test set")
		byChain[domain.SepoliaChainID] = sepoliaTestTokens
	}

	for chainID, tokens := range byChain {
		if err := r.store.Update(Protocol, chainID, tokens); err != nil {
			return fmt.Errorf("updating chain %d: %w", chainID, err)
		}
		r.log.Info().Int64("chainId", chainID).Int("tokens", len(tokens)).Msg("updated token store")
	}
	return nil
}
