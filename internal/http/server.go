// Package http exposes the JSON API: registration, login and the five-verb
// CRUD surface for budgets, categories and transactions, all wrapped in a
// uniform response envelope.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/artempelyovin/rashodomer-be/internal/core"
	applog "github.com/artempelyovin/rashodomer-be/internal/log"
	"github.com/artempelyovin/rashodomer-be/internal/middleware/ratelimit"
	"github.com/artempelyovin/rashodomer-be/internal/middleware/security"
	"github.com/artempelyovin/rashodomer-be/internal/service"
)

type Server struct {
	http.Server
	auth         *service.AuthManager
	budgets      *service.BudgetManager
	categories   *service.CategoryManager
	transactions *service.TransactionManager
	limiter      *ratelimit.Limiter
	headers      *security.Headers
	detector     *security.Detector
	logger       *applog.StructuredLogger
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, auth *service.AuthManager, budgets *service.BudgetManager, categories *service.CategoryManager, transactions *service.TransactionManager, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		auth:         auth,
		budgets:      budgets,
		categories:   categories,
		transactions: transactions,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		headers:      security.NewHeaders(security.DefaultHeadersConfig()),
		detector:     security.NewDetector(),
		logger:       applog.NewStructuredLogger(logger.WithComponent(applog.ComponentHTTP)),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /v1/register", s.wrap(s.handleRegister))
	mux.HandleFunc("POST /v1/login", s.wrap(s.handleLogin))

	mux.HandleFunc("POST /v1/budgets", s.wrap(s.authenticated(s.handleCreateBudget)))
	mux.HandleFunc("GET /v1/budgets", s.wrap(s.authenticated(s.handleListBudgets)))
	mux.HandleFunc("GET /v1/budgets/find", s.wrap(s.authenticated(s.handleFindBudgets)))
	mux.HandleFunc("GET /v1/budgets/{id}", s.wrap(s.authenticated(s.handleGetBudget)))
	mux.HandleFunc("PATCH /v1/budgets/{id}", s.wrap(s.authenticated(s.handleUpdateBudget)))
	mux.HandleFunc("DELETE /v1/budgets/{id}", s.wrap(s.authenticated(s.handleDeleteBudget)))

	mux.HandleFunc("POST /v1/categories", s.wrap(s.authenticated(s.handleCreateCategory)))
	mux.HandleFunc("GET /v1/categories", s.wrap(s.authenticated(s.handleListCategories)))
	mux.HandleFunc("GET /v1/categories/find", s.wrap(s.authenticated(s.handleFindCategories)))
	mux.HandleFunc("GET /v1/categories/{id}", s.wrap(s.authenticated(s.handleGetCategory)))
	mux.HandleFunc("PATCH /v1/categories/{id}", s.wrap(s.authenticated(s.handleUpdateCategory)))
	mux.HandleFunc("DELETE /v1/categories/{id}", s.wrap(s.authenticated(s.handleDeleteCategory)))

	mux.HandleFunc("POST /v1/transactions", s.wrap(s.authenticated(s.handleCreateTransaction)))
	mux.HandleFunc("GET /v1/transactions", s.wrap(s.authenticated(s.handleListTransactions)))
	mux.HandleFunc("GET /v1/transactions/find", s.wrap(s.authenticated(s.handleFindTransactions)))
	mux.HandleFunc("GET /v1/transactions/{id}", s.wrap(s.authenticated(s.handleGetTransaction)))
	mux.HandleFunc("PATCH /v1/transactions/{id}", s.wrap(s.authenticated(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /v1/transactions/{id}", s.wrap(s.authenticated(s.handleDeleteTransaction)))

	s.Server.Handler = applog.Middleware(logger)(mux)

	return s
}

// Shutdown stops the rate limiter's cleanup goroutine and then the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// wrap composes the per-route middleware chain: a request-scoped logger
// carrying a request ID, request start/end logging with status capture,
// security headers, then per-IP rate limiting on mutating requests.
// Headers come before the limiter so 429 responses carry them too.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	var handler http.Handler = next
	handler = s.limiter.Middleware([]string{http.MethodPost}, s.detector.ExtractClientIP, rateLimited)(handler)
	handler = s.headers.Middleware(handler)
	handler = s.instrument(handler)
	handler = applog.RequestIDMiddleware(func(*http.Request) string { return generateRequestID() })(handler)
	return handler.ServeHTTP
}

// instrument logs request start and completion, capturing the response
// status and flagging suspicious request shapes.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := s.detector.ExtractClientIP(r)
		ctx := r.Context()

		s.logger.LogHTTPStart(ctx, r, clientIP)

		if s.detector.DetectSuspiciousRequest(r) {
			applog.FromContext(ctx).Warn("Suspicious request detected",
				applog.FieldClientIP, clientIP,
				applog.FieldPath, r.URL.Path)
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.logger.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

func rateLimited(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Retry-After", "60")
	writeJSON(w, http.StatusTooManyRequests, envelope{
		StatusCode: http.StatusTooManyRequests,
		Error:      true,
		Detail:     strPtr("rate limit exceeded, try again later"),
	})
}

// authenticated resolves the Authorization header (a raw opaque token) to a
// user before running the handler.
func (s *Server) authenticated(next func(http.ResponseWriter, *http.Request, *core.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		user, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r, user)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func strPtr(s string) *string { return &s }

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
