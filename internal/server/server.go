// Package server provides the HTTP REST API for the job search agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-search-agent/internal/db"
	"github.com/jonathan/job-search-agent/internal/enrich"
	"github.com/jonathan/job-search-agent/internal/pipeline"
	"github.com/jonathan/job-search-agent/internal/serpapi"
	"github.com/jonathan/job-search-agent/internal/server/ratelimit"
)

// Retriever fetches raw listings from the job search provider.
type Retriever interface {
	SearchJobs(ctx context.Context, query, location string, limit int) []serpapi.Listing
}

// Coordinator runs the enrichment pipeline over retrieved listings.
type Coordinator interface {
	Run(ctx context.Context, req pipeline.SearchRequest, listings []serpapi.Listing) ([]enrich.Match, error)
}

// HistoryStore reads back persisted searches and matches.
type HistoryStore interface {
	GetSearch(ctx context.Context, searchID uuid.UUID) (*db.SearchSummary, error)
	ListRecentSearches(ctx context.Context, limit int) ([]db.SearchSummary, error)
	ListMatches(ctx context.Context, searchID uuid.UUID) ([]db.MatchRecord, error)
}

// Greeter produces the opening assistant message for a chat session.
type Greeter interface {
	Greeting(ctx context.Context) string
}

// Config holds server configuration. A nil RateLimit loads limits from the
// environment.
type Config struct {
	Port        int
	SearchLimit int
	RateLimit   *ratelimit.Config
}

// Deps are the collaborators handlers dispatch to. History and Greeter may
// be nil; the corresponding endpoints then degrade gracefully.
type Deps struct {
	Retriever   Retriever
	Coordinator Coordinator
	History     HistoryStore
	Greeter     Greeter
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	deps        Deps
	searchLimit int
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		deps:        deps,
		searchLimit: cfg.SearchLimit,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat/init", s.handleChatInit)
	mux.HandleFunc("POST /parse-resume", s.handleParseResume)
	mux.HandleFunc("POST /search-jobs", s.handleSearchJobs)
	mux.HandleFunc("GET /search-history", s.handleSearchHistory)
	mux.HandleFunc("GET /search-results/{id}", s.handleSearchResults)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Search fans out to the LLM per listing
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID identifies the client for rate limiting. Uses the IP from
// RemoteAddr; X-Forwarded-For would need a trusted proxy list first.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
