package tokenstore

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphaswap/alphaswap/internal/domain"
	"github.com/alphaswap/alphaswap/internal/logging"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.json")
	return New(path, logging.New(io.Discard, "silent"))
}

func TestGetMissingFileIsEmpty(t *testing.T) {
	s := testStore(t)
	tokens, err := s.Get("cowswap", 1)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestUpdateThenGet(t *testing.T) {
	s := testStore(t)
	weth := domain.Token{
		ChainID:  1,
		Address:  "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		Name:     "Wrapped Ether",
		Symbol:   "WETH",
		Decimals: 18,
	}
	require.NoError(t, s.Update("cowswap", 1, []domain.Token{weth}))

	tokens, err := s.Get("cowswap", 1)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, weth, tokens[0])

	// Other protocols and chains remain empty.
	other, err := s.Get("uniswap", 1)
	require.NoError(t, err)
	assert.Empty(t, other)
	other, err = s.Get("cowswap", 11155111)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUpdatePreservesOtherChains(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Update("cowswap", 1, []domain.Token{{Symbol: "WETH"}}))
	require.NoError(t, s.Update("cowswap", 11155111, []domain.Token{{Symbol: "USDC"}}))

	mainnet, err := s.Get("cowswap", 1)
	require.NoError(t, err)
	require.Len(t, mainnet, 1)
	assert.Equal(t, "WETH", mainnet[0].Symbol)
}

// Reads must always reflect the file on disk; the store keeps no
// in-memory cache between calls.
func TestGetRereadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	s := New(path, logging.New(io.Discard, "silent"))

	require.NoError(t, s.Update("cowswap", 1, []domain.Token{{Symbol: "OLD"}}))
	_, err := s.Get("cowswap", 1)
	require.NoError(t, err)

	// Replace the file out from under the store.
	require.NoError(t, os.WriteFile(path, []byte(`{"cowswap":{"1":[{"chainId":1,"address":"0x1","name":"New","symbol":"NEW","decimals":18}]}}`), 0o644))

	tokens, err := s.Get("cowswap", 1)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "NEW", tokens[0].Symbol)
}

func TestCorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	s := New(path, logging.New(io.Discard, "silent"))

	_, err := s.Get("cowswap", 1)
	assert.Error(t, err)
}
