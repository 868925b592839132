package server

import "net/http"

// registerRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/agent/message", s.handleAgentMessage)

	mux.HandleFunc("POST /api/swap/quote", s.handleSwapQuote)
	mux.HandleFunc("POST /api/swap/orders", s.handleSubmitOrder)
	mux.HandleFunc("GET /api/swap/orders/{orderUid}", s.handleOrderStatus)

	mux.HandleFunc("GET /api/tokens", s.handleTokens)
	mux.HandleFunc("GET /api/chains", s.handleChains)

	mux.HandleFunc("POST /api/admin/tokens/refresh", s.handleRefreshTokens)

	mux.HandleFunc("GET /health", s.handleHealth)

	// Catch-all for unknown routes
	mux.HandleFunc("/", handleNotFound)
}
