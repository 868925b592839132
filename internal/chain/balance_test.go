package chain

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphaswap/alphaswap/internal/logging"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeRPC answers eth_getBalance and the three ERC-20 read calls with
// canned ABI-encoded results.
func fakeRPC(t *testing.T) *httptest.Server {
	t.Helper()
	const (
		// 1 ETH in wei
		nativeBalance = `"0xde0b6b3a7640000"`
		// uint256 250000000
		balanceOfResult = `"0x000000000000000000000000000000000000000000000000000000000ee6b280"`
		// uint8 6
		decimalsResult = `"0x0000000000000000000000000000000000000000000000000000000000000006"`
		// string "USDC"
		symbolResult = `"0x000000000000000000000000000000000000000000000000000000000000002000000000000000000000000000000000000000000000000000000000000000045553444300000000000000000000000000000000000000000000000000000000"`
	)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result string
		switch req.Method {
		case "eth_getBalance":
			result = nativeBalance
		case "eth_call":
			var msg struct {
				Data string `json:"input"`
			}
			require.NoError(t, json.Unmarshal(req.Params[0], &msg))
			switch {
			case strings.HasPrefix(msg.Data, "0x70a08231"): // balanceOf(address)
				result = balanceOfResult
			case strings.HasPrefix(msg.Data, "0x313ce567"): // decimals()
				result = decimalsResult
			case strings.HasPrefix(msg.Data, "0x95d89b41"): // symbol()
				result = symbolResult
			default:
				t.Fatalf("unexpected eth_call data: %s", msg.Data)
			}
		default:
			t.Fatalf("unexpected RPC method: %s", req.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":` + result + `}`))
	}))
}

func testReader(t *testing.T, rpcURL string) *BalanceReader {
	t.Helper()
	r, err := NewBalanceReader(rpcURL, logging.New(io.Discard, "silent"))
	require.NoError(t, err)
	return r
}

func TestNativeBalance(t *testing.T) {
	srv := fakeRPC(t)
	defer srv.Close()
	r := testReader(t, srv.URL)

	balance, err := r.NativeBalance(context.Background(), "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", balance.String())
}

func TestNativeBalanceInvalidAddress(t *testing.T) {
	r := testReader(t, "http://localhost:0")
	_, err := r.NativeBalance(context.Background(), "not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address")
}

func TestTokenBalance(t *testing.T) {
	srv := fakeRPC(t)
	defer srv.Close()
	r := testReader(t, srv.URL)

	tb, err := r.TokenBalance(context.Background(),
		"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		"0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, "250000000", tb.Amount.String())
	assert.Equal(t, 6, tb.Decimals)
	assert.Equal(t, "USDC", tb.Symbol)
}

func TestTokenBalanceInvalidToken(t *testing.T) {
	r := testReader(t, "http://localhost:0")
	_, err := r.TokenBalance(context.Background(), "USDC", "0x1111111111111111111111111111111111111111")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token address")
}
