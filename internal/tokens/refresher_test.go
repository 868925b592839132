package tokens

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphaswap/alphaswap/internal/domain"
	"github.com/alphaswap/alphaswap/internal/logging"
	"github.com/alphaswap/alphaswap/internal/tokenstore"
)

func refresherFixture(t *testing.T, handler http.HandlerFunc) (*Refresher, *tokenstore.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logging.New(io.Discard, "silent")
	store := tokenstore.New(filepath.Join(t.TempDir(), "tokens.json"), log)
	return NewRefresher(store, srv.URL, log), store
}

func TestRefreshGroupsByChain(t *testing.T) {
	r, store := refresherFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"tokens":[
			{"chainId":1,"address":"0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2","name":"Wrapped Ether","symbol":"WETH","decimals":18},
			{"chainId":1,"address":"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48","name":"USD Coin","symbol":"USDC","decimals":6},
			{"chainId":11155111,"address":"0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14","name":"Wrapped Ether","symbol":"WETH","decimals":18}
		]}`))
	})
	require.NoError(t, r.Refresh(context.Background()))

	mainnet, err := store.Get(Protocol, domain.MainnetChainID)
	require.NoError(t, err)
	// Native ETH is prepended ahead of the two list entries.
	require.Len(t, mainnet, 3)
	assert.Equal(t, "ETH", mainnet[0].Symbol)
	assert.Equal(t, domain.NativeTokenAddress, mainnet[0].Address)
	assert.Equal(t, "WETH", mainnet[1].Symbol)

	sepolia, err := store.Get(Protocol, domain.SepoliaChainID)
	require.NoError(t, err)
	require.Len(t, sepolia, 1)
	assert.Equal(t, "WETH", sepolia[0].Symbol)
}

func TestRefreshKeepsExistingNativeEntry(t *testing.T) {
	r, store := refresherFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"tokens":[
			{"chainId":1,"address":"0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE","name":"Ether","symbol":"ETH","decimals":18}
		]}`))
	})
	require.NoError(t, r.Refresh(context.Background()))

	mainnet, err := store.Get(Protocol, domain.MainnetChainID)
	require.NoError(t, err)
	require.Len(t, mainnet, 1)
}

func TestRefreshFallsBackToSepoliaTestTokens(t *testing.T) {
	r, store := refresherFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"tokens":[
			{"chainId":1,"address":"0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2","name":"Wrapped Ether","symbol":"WETH","decimals":18}
		]}`))
	})
	require.NoError(t, r.Refresh(context.Background()))

	sepolia, err := store.Get(Protocol, domain.SepoliaChainID)
	require.NoError(t, err)
	require.Len(t, sepolia, len(sepoliaTestTokens))
	assert.Equal(t, "ETH", sepolia[0].Symbol)
	assert.Equal(t, "WETH", sepolia[1].Symbol)
	usdc := domain.FindBySymbol(sepolia, "USDC")
	require.NotNil(t, usdc)
	assert.Equal(t, 6, usdc.Decimals)
}

func TestRefreshUpstreamError(t *testing.T) {
	r, _ := refresherFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestRefreshMalformedBody(t *testing.T) {
	r, _ := refresherFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	})
	assert.Error(t, r.Refresh(context.Background()))
}
