package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/alphaswap/alphaswap/internal/agent"
	"github.com/alphaswap/alphaswap/internal/domain"
	"github.com/alphaswap/alphaswap/internal/orderbook"
	"github.com/alphaswap/alphaswap/internal/version"
)

// missingGeminiKey is the setup error shown when the chat endpoint is hit
// without a configured model API key.
const missingGeminiKey = "GEMINI_API_KEY is not configured. Please add it to your .env file."

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

// handleAgentMessage runs one chat turn: model, validation, dispatch.
func (s *Server) handleAgentMessage(w http.ResponseWriter, r *http.Request) {
	var req domain.AgentMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "Messages array is required")
		return
	}
	if s.agent == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":            missingGeminiKey,
			"assistantMessage": "I apologize, but I encountered an unexpected error. Please try again.",
		})
		return
	}

	message, action, err := s.agent.ProcessMessage(r.Context(), req.Messages, req.WalletContext)
	if err != nil {
		s.log.Error().Err(err).Msg("agent processing failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":            err.Error(),
			"assistantMessage": "I apologize, but I encountered an unexpected error. Please try again.",
		})
		return
	}

	if err := agent.ValidateAction(action); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":            fmt.Sprintf("Invalid action: %s", err),
			"assistantMessage": fmt.Sprintf("I apologize, but I encountered an error: %s. Please try rephrasing your request.", err),
		})
		return
	}

	resp := s.dispatcher.Dispatch(r.Context(), message, action, req.WalletContext)
	resp.ConversationID = req.ConversationID
	if resp.ConversationID == "" {
		resp.ConversationID = fmt.Sprintf("conv_%d", time.Now().UnixMilli())
	}
	writeJSON(w, http.StatusOK, resp)
}

type swapQuoteRequest struct {
	ChainID           int64  `json:"chainId"`
	SellToken         string `json:"sellToken"`
	BuyToken          string `json:"buyToken"`
	Amount            string `json:"amount"`
	Kind              string `json:"kind"`
	SellTokenDecimals int    `json:"sellTokenDecimals"`
	BuyTokenDecimals  int    `json:"buyTokenDecimals"`
	UserAddress       string `json:"userAddress"`
}

func (s *Server) handleSwapQuote(w http.ResponseWriter, r *http.Request) {
	var req swapQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SellToken == "" || req.BuyToken == "" || req.Amount == "" || req.Kind == "" || req.UserAddress == "" || req.ChainID == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.SellTokenDecimals == 0 {
		req.SellTokenDecimals = 18
	}
	if req.BuyTokenDecimals == 0 {
		req.BuyTokenDecimals = 18
	}

	client, err := s.orderbookFor(req.ChainID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	quote, err := client.GetQuote(r.Context(), orderbook.QuoteRequest{
		SellToken:         req.SellToken,
		BuyToken:          req.BuyToken,
		Amount:            req.Amount,
		Kind:              req.Kind,
		SellTokenDecimals: req.SellTokenDecimals,
		BuyTokenDecimals:  req.BuyTokenDecimals,
		UserAddress:       req.UserAddress,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("quote failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

type submitOrderRequest struct {
	ChainID   int64                  `json:"chainId"`
	Quote     map[string]interface{} `json:"quote"`
	Signature string                 `json:"signature"`
	QuoteID   interface{}            `json:"quoteId"`
	From      string                 `json:"from"`
}

// handleSubmitOrder forwards a signed order to the order book. The order
// payload is the signable quote plus the signature metadata; the quote
// fields pass through untouched so the signature stays valid.
func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	chainID := req.ChainID
	if chainID == 0 {
		chainID = domain.MainnetChainID
	}

	order := make(map[string]interface{}, len(req.Quote)+4)
	for k, v := range req.Quote {
		order[k] = v
	}
	order["from"] = req.From
	order["quoteId"] = req.QuoteID
	order["signature"] = req.Signature
	order["signingScheme"] = "eip712"

	client, err := s.orderbookFor(chainID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	uid, err := client.SendOrder(r.Context(), order)
	if err != nil {
		s.log.Error().Err(err).Msg("order submission failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"orderId": uid})
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("orderUid")
	chainID := queryChainID(r)

	client, err := s.orderbookFor(chainID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch order status")
		return
	}
	order, err := client.GetOrder(r.Context(), uid)
	if err != nil {
		s.log.Error().Err(err).Str("orderUid", uid).Msg("order lookup failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch order status")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(order)
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	tokens := s.provider.Tokens(queryChainID(r))
	if tokens == nil {
		tokens = []domain.Token{}
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handleChains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.SupportedChains())
}

func (s *Server) handleRefreshTokens(w http.ResponseWriter, r *http.Request) {
	if err := s.refresher.Refresh(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("token refresh failed")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Token lists refreshed",
	})
}

// queryChainID parses the chainId query parameter, defaulting to mainnet.
func queryChainID(r *http.Request) int64 {
	if raw := r.URL.Query().Get("chainId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id != 0 {
			return id
		}
	}
	return domain.MainnetChainID
}
