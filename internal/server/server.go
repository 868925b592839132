// Package server is the AlphaSwap HTTP surface: the chat endpoint, the
// swap and order pass-throughs, token and chain listings, and the admin
// refresh hook.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/alphaswap/alphaswap/internal/agent"
	"github.com/alphaswap/alphaswap/internal/config"
	"github.com/alphaswap/alphaswap/internal/logging"
	"github.com/alphaswap/alphaswap/internal/orderbook"
	"github.com/alphaswap/alphaswap/internal/tokens"
)

// OrderbookClient is the per-chain order-book surface the handlers use.
type OrderbookClient interface {
	GetQuote(ctx context.Context, req orderbook.QuoteRequest) (*orderbook.Quote, error)
	SendOrder(ctx context.Context, order map[string]interface{}) (string, error)
	GetOrder(ctx context.Context, uid string) (json.RawMessage, error)
}

// Server serves the REST API. The agent service may be nil when no model
// API key is configured; the chat endpoint then returns a setup error and
// every other route keeps working.
type Server struct {
	cfg        config.Config
	log        *logging.Logger
	agent      *agent.Service
	dispatcher *agent.Dispatcher
	provider   *tokens.Provider
	refresher  *tokens.Refresher

	orderbookFor func(chainID int64) (OrderbookClient, error)

	httpServer *http.Server
}

// Option configures the server.
type Option func(*Server)

// WithOrderbookFactory overrides per-chain order-book client construction.
// Used in tests to point handlers at a fake upstream.
func WithOrderbookFactory(f func(chainID int64) (OrderbookClient, error)) Option {
	return func(s *Server) {
		s.orderbookFor = f
	}
}

// New creates the HTTP server.
func New(cfg config.Config, log *logging.Logger, agentSvc *agent.Service, dispatcher *agent.Dispatcher, provider *tokens.Provider, refresher *tokens.Refresher, opts ...Option) *Server {
	s := &Server{
		cfg:        cfg,
		log:        log.Sub("server"),
		agent:      agentSvc,
		dispatcher: dispatcher,
		provider:   provider,
		refresher:  refresher,
	}
	s.orderbookFor = func(chainID int64) (OrderbookClient, error) {
		return orderbook.NewClient(chainID, log)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.ServerConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins serving and blocks until the context is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Server)

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := withMiddleware(mux, s.log, s.cfg.Server.AllowedOrigins)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Server.Bind).
		Msg("server starting")

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}
