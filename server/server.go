// Package server exposes the tool dispatcher and the login flow over HTTP.
//
// Information Hiding:
// - Routing, middleware and response encoding
// - How the login callback hands the credential to later dispatches
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/richinex/tubegate/auth"
	"github.com/richinex/tubegate/metrics"
	"github.com/richinex/tubegate/tools"
)

// maxEnvelopeBytes bounds a POST /mcp body.
const maxEnvelopeBytes = 1 << 20

// Config wires a Server. Flow may be nil when OAuth is not configured;
// Gatherer defaults to the Prometheus default registry.
type Config struct {
	Dispatcher      *tools.Dispatcher
	Holder          *auth.Holder
	Flow            *auth.Flow
	Logger          zerolog.Logger
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
	ShutdownTimeout time.Duration
}

// Server is the gateway's HTTP front end.
type Server struct {
	dispatcher      *tools.Dispatcher
	holder          *auth.Holder
	flow            *auth.Flow
	logger          zerolog.Logger
	metrics         *metrics.Metrics
	gatherer        prometheus.Gatherer
	shutdownTimeout time.Duration
}

// New creates a Server.
func New(cfg Config) *Server {
	holder := cfg.Holder
	if holder == nil {
		holder = &auth.Holder{}
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 10 * time.Second
	}
	return &Server{
		dispatcher:      cfg.Dispatcher,
		holder:          holder,
		flow:            cfg.Flow,
		logger:          cfg.Logger.With().Str("component", "http").Logger(),
		metrics:         cfg.Metrics,
		gatherer:        gatherer,
		shutdownTimeout: shutdown,
	}
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Post("/mcp", s.handleMCP)
	r.Get("/tools", s.listTools)
	r.Get("/auth/login", s.login)
	r.Get("/auth/callback", s.callback)
	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return r
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info().Msg("server stopped")
	return nil
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEnvelopeBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	result := s.dispatcher.DispatchJSON(r.Context(), s.holder.Load(), body)
	status := http.StatusOK
	if result.Malformed() {
		status = http.StatusBadRequest
	}
	writeJSONStatus(w, result, status)
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSONStatus(w, map[string]any{"tools": s.dispatcher.Registry().List()}, http.StatusOK)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if s.flow == nil {
		writeError(w, http.StatusServiceUnavailable, "OAuth is not configured")
		return
	}
	http.Redirect(w, r, s.flow.LoginURL(), http.StatusFound)
}

func (s *Server) callback(w http.ResponseWriter, r *http.Request) {
	if s.flow == nil {
		writeError(w, http.StatusServiceUnavailable, "OAuth is not configured")
		return
	}
	q := r.URL.Query()
	if reason := q.Get("error"); reason != "" {
		writeError(w, http.StatusBadRequest, "authorization denied: "+reason)
		return
	}

	tok, err := s.flow.Exchange(r.Context(), q.Get("state"), q.Get("code"))
	if err != nil {
		s.logger.Warn().Err(err).Msg("oauth callback failed")
		status := http.StatusBadGateway
		if errors.Is(err, auth.ErrInvalidState) || errors.Is(err, auth.ErrMissingCode) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Authentication failed: "+err.Error())
		return
	}

	s.holder.Store(auth.WithToken(tok.AccessToken))
	s.logger.Info().Bool("refresh_token", tok.RefreshToken != "").Msg("user authenticated")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, "<h1>Authentication successful! You may close this window.</h1>")
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSONStatus(w, map[string]any{
		"status":        "ok",
		"authenticated": s.holder.Load().Authenticated(),
	}, http.StatusOK)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.ObserveHTTP(r.Method, route, status)
		if r.Method == http.MethodGet && (route == "/health" || route == "/metrics") {
			return
		}
		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONStatus(w http.ResponseWriter, value any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSONStatus(w, map[string]string{"error": message}, statusCode)
}
