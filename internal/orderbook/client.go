// Package orderbook is the CoW Protocol order-book API client. One Client
// serves one chain; the HTTP shapes follow the order-book OpenAPI surface.
package orderbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alphaswap/alphaswap/internal/domain"
	"github.com/alphaswap/alphaswap/internal/logging"
)

// zeroAppData is the appData hash for orders carrying no metadata.
const zeroAppData = "0x0000000000000000000000000000000000000000000000000000000000000000"

// quoteValidity is how long a requested quote stays signable.
const quoteValidity = time.Hour

var baseURLs = map[int64]string{
	domain.MainnetChainID: "https://api.cow.fi/mainnet/api/v1",
	domain.SepoliaChainID: "https://api.cow.fi/sepolia/api/v1",
}

// QuoteRequest describes a quote lookup. Amount is human-readable and is
// converted to atomic units using the decimals of the side named by Kind.
type QuoteRequest struct {
	SellToken         string
	BuyToken          string
	Amount            string
	Kind              string // "sell" or "buy"
	SellTokenDecimals int
	BuyTokenDecimals  int
	UserAddress       string
}

// OrderParameters is the signable order inside a quote response.
type OrderParameters struct {
	SellToken         string `json:"sellToken"`
	BuyToken          string `json:"buyToken"`
	Receiver          string `json:"receiver,omitempty"`
	SellAmount        string `json:"sellAmount"`
	BuyAmount         string `json:"buyAmount"`
	ValidTo           int64  `json:"validTo"`
	AppData           string `json:"appData"`
	FeeAmount         string `json:"feeAmount"`
	Kind              string `json:"kind"`
	PartiallyFillable bool   `json:"partiallyFillable"`
	SellTokenBalance  string `json:"sellTokenBalance,omitempty"`
	BuyTokenBalance   string `json:"buyTokenBalance,omitempty"`
	SigningScheme     string `json:"signingScheme,omitempty"`
}

// Quote is the order-book quote response.
type Quote struct {
	Quote      OrderParameters `json:"quote"`
	From       string          `json:"from,omitempty"`
	Expiration string          `json:"expiration,omitempty"`
	ID         int64           `json:"id,omitempty"`
	Verified   bool            `json:"verified,omitempty"`
}

// apiError is the order-book error body.
type apiError struct {
	ErrorType   string `json:"errorType"`
	Description string `json:"description"`
}

// Client talks to the order-book API of a single chain.
type Client struct {
	chainID int64
	baseURL string
	client  *http.Client
	log     *logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewClient creates an order-book client for the given chain.
func NewClient(chainID int64, log *logging.Logger, opts ...Option) (*Client, error) {
	baseURL, ok := baseURLs[chainID]
	if !ok {
		return nil, fmt.Errorf("no order-book endpoint for chain %d", chainID)
	}
	c := &Client{
		chainID: chainID,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.Sub("orderbook"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ChainID returns the chain this client serves.
func (c *Client) ChainID() int64 {
	return c.chainID
}

// GetQuote requests a quote. Selling the native asset substitutes the
// chain's wrapped-native address, since the order book only quotes ERC-20
// pairs. The response is returned as the API sent it.
func (c *Client) GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	decimals := req.SellTokenDecimals
	if req.Kind == "buy" {
		decimals = req.BuyTokenDecimals
	}
	amount, err := ParseUnits(req.Amount, decimals)
	if err != nil {
		return nil, err
	}

	sellToken := req.SellToken
	if domain.IsNativeAsset(sellToken) {
		sellToken = domain.WrappedNativeAddress(domain.NetworkForChainID(c.chainID))
	}

	body := map[string]interface{}{
		"sellToken":         sellToken,
		"buyToken":          req.BuyToken,
		"from":              req.UserAddress,
		"receiver":          req.UserAddress,
		"validTo":           time.Now().Add(quoteValidity).Unix(),
		"appData":           zeroAppData,
		"partiallyFillable": false,
		"sellTokenBalance":  "erc20",
		"buyTokenBalance":   "erc20",
		"kind":              req.Kind,
		"signingScheme":     "eip712",
	}
	if req.Kind == "buy" {
		body["buyAmountAfterFee"] = amount.String()
	} else {
		body["sellAmountBeforeFee"] = amount.String()
	}

	c.log.Debug().
		Str("sellToken", sellToken).
		Str("buyToken", req.BuyToken).
		Str("amount", amount.String()).
		Str("kind", req.Kind).
		Msg("requesting quote")

	var quote Quote
	if err := c.post(ctx, "/quote", body, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// SendOrder submits a signed order and returns its UID. The payload is the
// signable order from the quote plus from, quoteId and signature; it is
// passed through untouched so the signed fields stay byte-identical.
func (c *Client) SendOrder(ctx context.Context, order map[string]interface{}) (string, error) {
	var uid string
	if err := c.post(ctx, "/orders", order, &uid); err != nil {
		return "", err
	}
	return uid, nil
}

// GetOrder fetches an order by UID and returns the raw order object.
func (c *Client) GetOrder(ctx context.Context, uid string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders/"+uid, nil)
	if err != nil {
		return nil, fmt.Errorf("creating order request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching order: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading order response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.apiErr(resp.StatusCode, respBody)
	}
	return json.RawMessage(respBody), nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling order book: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.apiErr(resp.StatusCode, respBody)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func (c *Client) apiErr(status int, body []byte) error {
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.ErrorType != "" {
		return fmt.Errorf("order book error (%d) %s: %s", status, apiErr.ErrorType, apiErr.Description)
	}
	return fmt.Errorf("order book error (%d): %s", status, string(body))
}
