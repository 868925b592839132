package agent

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/alphaswap/alphaswap/internal/chain"
	"github.com/alphaswap/alphaswap/internal/domain"
	"github.com/alphaswap/alphaswap/internal/logging"
	"github.com/alphaswap/alphaswap/internal/orderbook"
	"github.com/alphaswap/alphaswap/internal/tokens"
)

// zeroAddress is the placeholder quote recipient when no wallet is connected.
const zeroAddress = "0x0000000000000000000000000000000000000000"

// QuoteGateway is the order-book surface the dispatcher needs.
type QuoteGateway interface {
	GetQuote(ctx context.Context, req orderbook.QuoteRequest) (*orderbook.Quote, error)
}

// BalanceSource reads native and token balances for one network.
type BalanceSource interface {
	NativeBalance(ctx context.Context, addr string) (*big.Int, error)
	TokenBalance(ctx context.Context, token, holder string) (*chain.TokenBalance, error)
}

// EnrichedQuote is the raw order-book quote plus the display fields the
// chat client renders.
type EnrichedQuote struct {
	*orderbook.Quote
	FormattedSellAmount string `json:"formattedSellAmount"`
	FormattedBuyAmount  string `json:"formattedBuyAmount"`
	FormattedFeeAmount  string `json:"formattedFeeAmount"`
	SellTokenSymbol     string `json:"sellTokenSymbol"`
	BuyTokenSymbol      string `json:"buyTokenSymbol"`
	SellTokenLogoURI    string `json:"sellTokenLogoURI,omitempty"`
	BuyTokenLogoURI     string `json:"buyTokenLogoURI,omitempty"`
	SellTokenDecimals   int    `json:"sellTokenDecimals"`
	BuyTokenDecimals    int    `json:"buyTokenDecimals"`
	// RequestAmount is the originally requested human amount, kept so the
	// client can refresh the quote with the same input.
	RequestAmount string `json:"requestAmount"`
}

// balanceSymbols maps common symbols to per-network addresses for balance
// checks. The Sepolia entries are the test-token deployments, which differ
// from the canonical resolver table.
var balanceSymbols = map[string]map[string]string{
	"WETH": {
		domain.NetworkEthereum: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		domain.NetworkSepolia:  "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14",
	},
	"USDC": {
		domain.NetworkEthereum: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		domain.NetworkSepolia:  "0xbe72E441BF55620febc26715db68d3494213D8Cb",
	},
	"DAI": {
		domain.NetworkEthereum: "0x6B175474E89094C44Da98b954EedeAC495271d0F",
		domain.NetworkSepolia:  "0xB4F1737Af37711e9A5890D9510c9bB60e170CB0D",
	},
	"COW": {
		domain.NetworkEthereum: "0xDEf1CA1fb7FBcDC777520aa7f396b4E015F497aB",
		domain.NetworkSepolia:  "0x0625aFB445C3B6B7B929342a04A22599fd5dBB59",
	},
	"GNO": {
		domain.NetworkEthereum: "0x6810e776880C02933D47DB1b9fc05908e5386b96",
		domain.NetworkSepolia:  "0xd3f3d46FeBCD4CdAa2B83799b7A5CdcB69d135De",
	},
	"UNI": {
		domain.NetworkEthereum: "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
		domain.NetworkSepolia:  "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
	},
}

// Dispatcher executes a validated action and folds the outcome into the
// chat reply. It is stateless: every call carries its full context, and
// each branch converts its own failures into chat messages instead of
// propagating errors.
type Dispatcher struct {
	resolver    *tokens.Resolver
	provider    *tokens.Provider
	gatewayFor  func(chainID int64) (QuoteGateway, error)
	balancesFor func(network string) (BalanceSource, error)
	log         *logging.Logger
}

// NewDispatcher wires a dispatcher. The factories defer gateway and RPC
// construction to dispatch time so each request hits the network the
// action names.
func NewDispatcher(
	resolver *tokens.Resolver,
	provider *tokens.Provider,
	gatewayFor func(chainID int64) (QuoteGateway, error),
	balancesFor func(network string) (BalanceSource, error),
	log *logging.Logger,
) *Dispatcher {
	return &Dispatcher{
		resolver:    resolver,
		provider:    provider,
		gatewayFor:  gatewayFor,
		balancesFor: balancesFor,
		log:         log.Sub("dispatch"),
	}
}

// Dispatch executes action and returns the response for this chat turn.
// assistantMessage is the model's conversational reply, which branches
// extend or replace.
func (d *Dispatcher) Dispatch(ctx context.Context, assistantMessage string, action domain.AgentAction, walletCtx *domain.WalletContext) *domain.AgentResponse {
	resp := &domain.AgentResponse{AssistantMessage: assistantMessage}

	switch action.Type {
	case domain.ActionRequestWalletConnect:
		resp.RequiredAction = domain.ActionRequestWalletConnect

	case domain.ActionGetQuote:
		d.dispatchQuote(ctx, resp, action, walletCtx)

	case domain.ActionSubmitOrder:
		if !walletCtx.Connected() {
			resp.AssistantMessage = "Please connect your wallet first to submit an order."
			resp.RequiredAction = domain.ActionRequestWalletConnect
			break
		}
		// The signed order comes back through the swap endpoint; here we
		// only signal the client to collect the signature.
		resp.RequiredAction = domain.ActionSubmitOrder

	case domain.ActionCheckBalance:
		d.dispatchBalance(ctx, resp, action, walletCtx)

	case domain.ActionRequestAllowance:
		resp.RequiredAction = domain.ActionRequestAllowance
	}

	return resp
}

func (d *Dispatcher) dispatchQuote(ctx context.Context, resp *domain.AgentResponse, action domain.AgentAction, walletCtx *domain.WalletContext) {
	network := action.Network
	if network == "" {
		network = domain.NetworkEthereum
	}
	chainID := domain.ChainIDForNetwork(network)

	sellAddr := d.resolver.ResolveAddress(action.SellToken, network)
	buyAddr := d.resolver.ResolveAddress(action.BuyToken, network)

	if !tokens.IsValidAddress(sellAddr) || !tokens.IsValidAddress(buyAddr) {
		resp.AssistantMessage = "One or both token addresses are invalid. Please provide valid ERC-20 contract addresses or supported symbols."
		return
	}

	// A native <-> wrapped-native pair is a 1:1 wrap, not a swap; hand it
	// to the client without touching the order book.
	if isWrapPair(sellAddr, buyAddr, network) {
		wrapType := "unwrap"
		if domain.IsNativeAsset(sellAddr) {
			wrapType = "wrap"
		}
		button := "Unwrap"
		if wrapType == "wrap" {
			button = "Wrap"
		}
		resp.AssistantMessage = fmt.Sprintf(
			"I'll help you %s %s %s to %s. This is a 1:1 conversion. Click the %q button below to proceed.",
			wrapType, action.Amount, action.SellToken, action.BuyToken, button)
		resp.Action = &domain.AgentAction{
			Type:       domain.ActionWrap,
			WrapType:   wrapType,
			WrapAmount: action.Amount,
			SellToken:  action.SellToken,
			BuyToken:   action.BuyToken,
			Network:    network,
		}
		return
	}

	available := d.provider.Tokens(chainID)
	sellInfo := domain.FindByAddress(available, sellAddr)
	buyInfo := domain.FindByAddress(available, buyAddr)

	sellDecimals, buyDecimals := 18, 18
	if sellInfo != nil && sellInfo.Decimals > 0 {
		sellDecimals = sellInfo.Decimals
	}
	if buyInfo != nil && buyInfo.Decimals > 0 {
		buyDecimals = buyInfo.Decimals
	}

	userAddress := zeroAddress
	if walletCtx.Connected() {
		userAddress = walletCtx.CurrentAddress
	}

	kind := "buy"
	if action.AmountType == "sell" {
		kind = "sell"
	}

	gateway, err := d.gatewayFor(chainID)
	if err == nil {
		var quote *orderbook.Quote
		quote, err = gateway.GetQuote(ctx, orderbook.QuoteRequest{
			SellToken:         sellAddr,
			BuyToken:          buyAddr,
			Amount:            action.Amount,
			Kind:              kind,
			SellTokenDecimals: sellDecimals,
			BuyTokenDecimals:  buyDecimals,
			UserAddress:       userAddress,
		})
		if err == nil {
			resp.Quote = d.enrichQuote(quote, action.Amount, sellInfo, buyInfo, sellDecimals, buyDecimals)
			resp.AssistantMessage += "\n\nQuote received! Review the details below and click \"Accept Quote\" to proceed."
			return
		}
	}
	d.log.Error().Err(err).Str("network", network).Msg("quote failed")
	resp.AssistantMessage = fmt.Sprintf("I encountered an error while fetching the quote: %s. Please check your parameters and try again.", err)
}

func (d *Dispatcher) enrichQuote(quote *orderbook.Quote, requestAmount string, sellInfo, buyInfo *domain.Token, sellDecimals, buyDecimals int) *EnrichedQuote {
	enriched := &EnrichedQuote{
		Quote: quote,
		// Display the amount the user asked for, not the post-fee amount.
		FormattedSellAmount: requestAmount,
		SellTokenSymbol:     "UNKNOWN",
		BuyTokenSymbol:      "UNKNOWN",
		SellTokenDecimals:   sellDecimals,
		BuyTokenDecimals:    buyDecimals,
		RequestAmount:       requestAmount,
	}
	if formatted, err := orderbook.FormatUnits(quote.Quote.BuyAmount, buyDecimals); err == nil {
		enriched.FormattedBuyAmount = formatted
	}
	if formatted, err := orderbook.FormatUnits(quote.Quote.FeeAmount, sellDecimals); err == nil {
		enriched.FormattedFeeAmount = formatted
	}
	if sellInfo != nil {
		enriched.SellTokenSymbol = sellInfo.Symbol
		enriched.SellTokenLogoURI = sellInfo.LogoURI
	}
	if buyInfo != nil {
		enriched.BuyTokenSymbol = buyInfo.Symbol
		enriched.BuyTokenLogoURI = buyInfo.LogoURI
	}
	return enriched
}

func (d *Dispatcher) dispatchBalance(ctx context.Context, resp *domain.AgentResponse, action domain.AgentAction, walletCtx *domain.WalletContext) {
	if !walletCtx.Connected() {
		resp.AssistantMessage = "Please connect your wallet first to check your balance."
		resp.RequiredAction = domain.ActionRequestWalletConnect
		return
	}

	// Balance checks default to the test network, unlike quotes.
	network := action.Network
	if network == "" {
		network = domain.NetworkSepolia
	}

	queried := action.BalanceTokens()
	if len(queried) == 0 {
		resp.AssistantMessage = "Please specify which token(s) you want to check."
		return
	}

	balances, err := d.balancesFor(network)
	if err != nil {
		d.log.Error().Err(err).Str("network", network).Msg("balance source unavailable")
		resp.AssistantMessage = fmt.Sprintf("I encountered an error while checking the balance: %s. Please try again.", err)
		return
	}

	results := make([]string, 0, len(queried))
	for _, tokenInput := range queried {
		results = append(results, d.checkOneBalance(ctx, balances, tokenInput, network, walletCtx.CurrentAddress))
	}

	if len(queried) == 1 {
		line := strings.Replace(results[0], "• **", "", 1)
		line = strings.Replace(line, "**:", ":", 1)
		resp.AssistantMessage = fmt.Sprintf("%s\n\nYour %s", resp.AssistantMessage, line)
	} else {
		resp.AssistantMessage = fmt.Sprintf("%s\n\n%s", resp.AssistantMessage, strings.Join(results, "\n"))
	}
}

// checkOneBalance resolves and reads a single balance, turning every
// failure into an inline result so one bad token never sinks the rest.
func (d *Dispatcher) checkOneBalance(ctx context.Context, balances BalanceSource, tokenInput, network, holder string) string {
	if strings.ToUpper(tokenInput) == "ETH" {
		wei, err := balances.NativeBalance(ctx, holder)
		if err != nil {
			d.log.Error().Err(err).Str("token", tokenInput).Msg("balance check failed")
			return fmt.Sprintf("• **%s**: Error fetching balance", tokenInput)
		}
		formatted, err := orderbook.FormatUnits(wei.String(), 18)
		if err != nil {
			return fmt.Sprintf("• **%s**: Error fetching balance", tokenInput)
		}
		return fmt.Sprintf("• **ETH**: %s ETH", formatted)
	}

	tokenAddr := tokenInput
	if !strings.HasPrefix(tokenInput, "0x") {
		tokenAddr = balanceSymbols[strings.ToUpper(tokenInput)][network]
		if tokenAddr == "" {
			return fmt.Sprintf("• **%s**: Token not found on %s", tokenInput, network)
		}
	}

	tb, err := balances.TokenBalance(ctx, tokenAddr, holder)
	if err != nil {
		d.log.Error().Err(err).Str("token", tokenInput).Msg("balance check failed")
		return fmt.Sprintf("• **%s**: Error fetching balance", tokenInput)
	}
	formatted, err := orderbook.FormatUnits(tb.Amount.String(), tb.Decimals)
	if err != nil {
		return fmt.Sprintf("• **%s**: Error fetching balance", tokenInput)
	}
	return fmt.Sprintf("• **%s**: %s %s", tb.Symbol, formatted, tb.Symbol)
}

func isWrapPair(sellAddr, buyAddr, network string) bool {
	return (domain.IsNativeAsset(sellAddr) && domain.IsWrappedNative(buyAddr, network)) ||
		(domain.IsWrappedNative(sellAddr, network) && domain.IsNativeAsset(buyAddr))
}
