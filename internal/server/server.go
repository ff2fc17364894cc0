package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jonathan/career-diagnosis/internal/diagnosis"
	"github.com/jonathan/career-diagnosis/internal/observability"
	"github.com/jonathan/career-diagnosis/internal/server/middleware"
	"github.com/jonathan/career-diagnosis/internal/server/ratelimit"
)

// maxBodyBytes caps request bodies; the largest legitimate body is an answer set
const maxBodyBytes = 64 << 10

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	service        *diagnosis.Service
	rateLimiter    *ratelimit.Limiter
	logger         *observability.Logger
	requestTimeout time.Duration
	allowedOrigin  string
}

// Config holds server configuration
type Config struct {
	Addr string
	// RequestTimeout bounds one diagnosis submission, model call included
	RequestTimeout time.Duration
	// RateLimit is nil for ratelimit.DefaultConfig
	RateLimit *ratelimit.Config
	// AllowedOrigin is the CORS origin; empty means "*"
	AllowedOrigin string
}

// New creates a new server instance. Tokens on protected routes are checked
// with validator.
func New(cfg Config, svc *diagnosis.Service, validator middleware.TokenValidator, logger *observability.Logger) *Server {
	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.DefaultConfig()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	s := &Server{
		service:        svc,
		rateLimiter:    ratelimit.NewLimiter(rlConfig),
		logger:         logger.OrNop().With("component", "http"),
		requestTimeout: timeout,
		allowedOrigin:  origin,
	}

	auth := middleware.AuthMiddleware(validator)
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /questions", s.handleQuestions)

	mux.Handle("POST /diagnoses", protected(s.handleSubmitDiagnosis))
	mux.Handle("GET /diagnoses", protected(s.handleListDiagnoses))
	mux.Handle("GET /diagnoses/{id}", protected(s.handleGetDiagnosis))
	mux.Handle("PUT /diagnoses/{id}", protected(s.handleUpdateMemo))
	mux.Handle("DELETE /diagnoses/{id}", protected(s.handleDeleteDiagnosis))

	mux.Handle("GET /profile", protected(s.handleGetProfile))
	mux.Handle("PUT /profile", protected(s.handleUpdateProfile))

	s.httpServer = &http.Server{
		Addr:        cfg.Addr,
		Handler:     s.withLogging(s.withCORS(s.withRateLimit(mux))),
		ReadTimeout: 30 * time.Second,
		// Long enough for a submission to finish and write its response
		WriteTimeout: timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops background work
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	defer s.rateLimiter.Stop()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client", extractClientID(r),
		)
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes the JSON error body for err. Server-side failures are
// logged with the underlying cause, which never reaches the client.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, body := describe(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"code", body.Code,
			"error", err,
		)
	}
	s.jsonResponse(w, status, body)
}

// decodeJSON reads a size-limited JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrBadRequest{Message: "リクエストが大きすぎます"}
		}
		return &ErrBadRequest{Message: "リクエストの形式が正しくありません"}
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "リクエストが多すぎます。しばらくしてから再度お試しください",
		"code":      CodeRateLimited,
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"resetAt":   info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retryAfter"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded",
		"client", extractClientID(r),
		"path", r.URL.Path,
		"method", r.Method,
		"limit", info.Limit,
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
