package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphaswap/alphaswap/internal/agent"
	"github.com/alphaswap/alphaswap/internal/config"
	"github.com/alphaswap/alphaswap/internal/domain"
	"github.com/alphaswap/alphaswap/internal/llm"
	"github.com/alphaswap/alphaswap/internal/logging"
	"github.com/alphaswap/alphaswap/internal/orderbook"
	"github.com/alphaswap/alphaswap/internal/tokens"
	"github.com/alphaswap/alphaswap/internal/tokenstore"
)

type fakeOrderbook struct {
	quote     *orderbook.Quote
	quoteErr  error
	lastQuote orderbook.QuoteRequest
	uid       string
	sendErr   error
	lastOrder map[string]interface{}
	order     json.RawMessage
	orderErr  error
	lastUID   string
	chainID   int64
}

func (f *fakeOrderbook) GetQuote(_ context.Context, req orderbook.QuoteRequest) (*orderbook.Quote, error) {
	f.lastQuote = req
	return f.quote, f.quoteErr
}

func (f *fakeOrderbook) SendOrder(_ context.Context, order map[string]interface{}) (string, error) {
	f.lastOrder = order
	return f.uid, f.sendErr
}

func (f *fakeOrderbook) GetOrder(_ context.Context, uid string) (json.RawMessage, error) {
	f.lastUID = uid
	return f.order, f.orderErr
}

type fixture struct {
	handler http.Handler
	book    *fakeOrderbook
	mock    *llm.MockClient
	store   *tokenstore.Store
}

func newFixture(t *testing.T, withAgent bool) *fixture {
	t.Helper()
	log := logging.New(io.Discard, "silent")
	store := tokenstore.New(filepath.Join(t.TempDir(), "tokens.json"), log)
	require.NoError(t, store.Update(tokens.Protocol, domain.MainnetChainID, []domain.Token{
		{ChainID: 1, Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18},
	}))
	provider := tokens.NewProvider(store, log)
	resolver := tokens.NewResolver(provider)
	book := &fakeOrderbook{}

	dispatcher := agent.NewDispatcher(resolver, provider,
		func(chainID int64) (agent.QuoteGateway, error) { return book, nil },
		func(network string) (agent.BalanceSource, error) { return nil, errors.New("no rpc in tests") },
		log)

	mock := &llm.MockClient{}
	var svc *agent.Service
	if withAgent {
		svc = agent.NewService(mock, provider, log)
	}

	refresher := tokens.NewRefresher(store, "http://invalid.localhost/tokens.json", log)

	srv := New(config.Defaults(), log, svc, dispatcher, provider, refresher,
		WithOrderbookFactory(func(chainID int64) (OrderbookClient, error) {
			book.chainID = chainID
			return book, nil
		}))

	mux := http.NewServeMux()
	srv.registerRoutes(mux)
	return &fixture{
		handler: withMiddleware(mux, log, []string{"*"}),
		book:    book,
		mock:    mock,
		store:   store,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(t, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestNotFound(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(t, "GET", "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAgentMessageRequiresMessages(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(t, "POST", "/api/agent/message", `{"messages":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Messages array is required")
}

func TestAgentMessageWithoutAPIKey(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, "POST", "/api/agent/message", `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "GEMINI_API_KEY is not configured")
}

func TestAgentMessageConversation(t *testing.T) {
	f := newFixture(t, true)
	f.mock.CompleteFunc = func(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
		return &llm.CompletionResponse{Content: "Hello there!"}, nil
	}

	rec := f.do(t, "POST", "/api/agent/message", `{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.AgentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hello there!", resp.AssistantMessage)
	assert.True(t, strings.HasPrefix(resp.ConversationID, "conv_"))

	// A provided conversation id is echoed back.
	rec = f.do(t, "POST", "/api/agent/message", `{"conversationId":"conv_abc","messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "conv_abc", resp.ConversationID)
}

func TestAgentMessageValidatorRejection(t *testing.T) {
	f := newFixture(t, true)
	f.mock.CompleteFunc = func(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
		return &llm.CompletionResponse{
			Content: "Getting a quote.\nACTION: {\"type\":\"GET_QUOTE\",\"network\":\"ethereum\",\"sellToken\":\"WETH\"}",
		}, nil
	}

	rec := f.do(t, "POST", "/api/agent/message", `{"messages":[{"role":"user","content":"swap"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid action: Missing token addresses")
	assert.Contains(t, rec.Body.String(), "Please try rephrasing your request")
}

func TestAgentMessageModelFailure(t *testing.T) {
	f := newFixture(t, true)
	f.mock.CompleteFunc = func(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
		return nil, errors.New("upstream down")
	}

	rec := f.do(t, "POST", "/api/agent/message", `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "I apologize, but I encountered an unexpected error.")
}

func TestSwapQuoteValidation(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(t, "POST", "/api/swap/quote", `{"sellToken":"0x1","buyToken":"0x2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required fields")
}

func TestSwapQuote(t *testing.T) {
	f := newFixture(t, true)
	f.book.quote = &orderbook.Quote{Quote: orderbook.OrderParameters{BuyAmount: "250000000"}, ID: 7}

	rec := f.do(t, "POST", "/api/swap/quote", `{
		"chainId": 1,
		"sellToken": "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		"buyToken": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		"amount": "0.1",
		"kind": "sell",
		"sellTokenDecimals": 18,
		"buyTokenDecimals": 6,
		"userAddress": "0x1111111111111111111111111111111111111111"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"buyAmount":"250000000"`)
	assert.Equal(t, "0.1", f.book.lastQuote.Amount)
	assert.Equal(t, 6, f.book.lastQuote.BuyTokenDecimals)
	assert.Equal(t, int64(1), f.book.chainID)
}

// Omitted decimals fall back to 18 on both sides.
func TestSwapQuoteDefaultDecimals(t *testing.T) {
	f := newFixture(t, true)
	f.book.quote = &orderbook.Quote{}

	rec := f.do(t, "POST", "/api/swap/quote", `{
		"chainId": 1,
		"sellToken": "0x1", "buyToken": "0x2", "amount": "1", "kind": "sell",
		"userAddress": "0x1111111111111111111111111111111111111111"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 18, f.book.lastQuote.SellTokenDecimals)
	assert.Equal(t, 18, f.book.lastQuote.BuyTokenDecimals)
}

func TestSwapQuoteUpstreamError(t *testing.T) {
	f := newFixture(t, true)
	f.book.quoteErr = errors.New("no liquidity")

	rec := f.do(t, "POST", "/api/swap/quote", `{
		"chainId": 1,
		"sellToken": "0x1", "buyToken": "0x2", "amount": "1", "kind": "sell",
		"userAddress": "0x1111111111111111111111111111111111111111"
	}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "no liquidity")
}

func TestSubmitOrderMergesSignedPayload(t *testing.T) {
	f := newFixture(t, true)
	f.book.uid = "0xdeadbeef"

	rec := f.do(t, "POST", "/api/swap/orders", `{
		"quote": {"sellToken":"0x1","buyToken":"0x2","sellAmount":"100"},
		"signature": "0xsig",
		"quoteId": 42,
		"from": "0x1111111111111111111111111111111111111111"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orderId":"0xdeadbeef"`)

	// chainId defaults to mainnet when omitted.
	assert.Equal(t, int64(1), f.book.chainID)
	assert.Equal(t, "0xsig", f.book.lastOrder["signature"])
	assert.Equal(t, "eip712", f.book.lastOrder["signingScheme"])
	assert.Equal(t, "0x1", f.book.lastOrder["sellToken"])
	assert.Equal(t, float64(42), f.book.lastOrder["quoteId"])
}

func TestOrderStatus(t *testing.T) {
	f := newFixture(t, true)
	f.book.order = json.RawMessage(`{"uid":"0xabc","status":"open"}`)

	rec := f.do(t, "GET", "/api/swap/orders/0xabc?chainId=11155111", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0xabc", f.book.lastUID)
	assert.Equal(t, int64(11155111), f.book.chainID)
	assert.Contains(t, rec.Body.String(), `"status":"open"`)
}

func TestOrderStatusUpstreamError(t *testing.T) {
	f := newFixture(t, true)
	f.book.orderErr = errors.New("boom")
	rec := f.do(t, "GET", "/api/swap/orders/0xabc", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch order status")
}

func TestTokensEndpoint(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, "GET", "/api/tokens", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol":"WETH"`)

	// Unknown chain yields an empty array, not null.
	rec = f.do(t, "GET", "/api/tokens?chainId=999", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestChainsEndpoint(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(t, "GET", "/api/chains", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var chains []domain.ChainInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chains))
	require.Len(t, chains, 2)
	assert.Equal(t, int64(1), chains[0].ChainID)
	assert.Equal(t, int64(11155111), chains[1].ChainID)
}

func TestRefreshTokensFailure(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(t, "POST", "/api/admin/tokens/refresh", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, true)
	req := httptest.NewRequest(http.MethodOptions, "/api/tokens", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
