// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/depot-store/depot/internal/auth"
	"github.com/depot-store/depot/internal/catalog"
	"github.com/depot-store/depot/internal/health"
	"github.com/depot-store/depot/internal/observability"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

// ResetTokenDelivery hands a freshly issued password-reset token off
// for delivery to the account holder. The token must never appear in
// the HTTP response, or requesting a reset would become a way to take
// over accounts.
type ResetTokenDelivery func(ctx context.Context, email, token string)

// Server serves the storefront API.
type Server struct {
	addr       string
	catalog    *catalog.Service
	auth       *auth.Service
	resets     *auth.PasswordResetService
	health     *health.Reporter
	metrics    *observability.Metrics
	deliver    ResetTokenDelivery
	mux        *http.ServeMux
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// Options configures a Server.
type Options struct {
	Addr    string
	Catalog *catalog.Service
	Auth    *auth.Service
	Resets  *auth.PasswordResetService
	Health  *health.Reporter

	// Metrics is optional; without it no request metrics are recorded.
	Metrics *observability.Metrics

	// DeliverResetToken is optional. The default logs that a reset was
	// requested without the token itself.
	DeliverResetToken ResetTokenDelivery
}

// NewServer creates a new API server.
func NewServer(opts Options) (*Server, error) {
	if opts.Catalog == nil {
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("catalog service cannot be nil")
	}
	if opts.Auth == nil {
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("auth service cannot be nil")
	}
	if opts.Resets == nil {
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("reset service cannot be nil")
	}
	if opts.Health == nil {
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("health reporter cannot be nil")
	}

	deliver := opts.DeliverResetToken
	if deliver == nil {
		deliver = func(ctx context.Context, email, _ string) {
			slog.InfoContext(ctx, "password reset requested", "email", email)
		}
	}

	return &Server{
		addr:    opts.Addr,
		catalog: opts.Catalog,
		auth:    opts.Auth,
		resets:  opts.Resets,
		health:  opts.Health,
		metrics: opts.Metrics,
		deliver: deliver,
	}, nil
}

// Handler returns the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/ready", s.handleReady)
	mux.HandleFunc("GET /health/live", s.handleLive)

	mux.HandleFunc("GET /products", s.handleListProducts)
	mux.HandleFunc("POST /products", s.handleCreateProduct)
	mux.HandleFunc("GET /products/{id}", s.handleGetProduct)
	mux.HandleFunc("PUT /products/{id}", s.handleUpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", s.handleDeleteProduct)

	mux.HandleFunc("POST /session", s.handleLogin)
	mux.HandleFunc("DELETE /session", s.handleLogout)

	mux.HandleFunc("POST /passwords", s.handleRequestReset)
	mux.HandleFunc("PUT /passwords/{token}", s.handleResetPassword)

	mux.Handle("GET /me", s.requireSession(http.HandlerFunc(s.handleMe)))

	s.mux = mux
	var handler http.Handler = mux
	if s.metrics != nil {
		handler = s.recordMetrics(handler)
	}
	return s.logRequests(handler)
}

// Start begins serving the API.
// It returns an error channel that will receive any errors from the HTTP server
// after it starts. The channel is closed when the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	slog.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
