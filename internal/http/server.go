// Package http exposes the JSON API: auth, item CRUD, and the calendar
// and budget summary queries.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"nassets/internal/budget"
	"nassets/internal/core"
	"nassets/internal/services"
	"nassets/internal/storage"
)

// Authenticator resolves bearer tokens to users. Implemented by
// *storage.Repository.
type Authenticator interface {
	UserByToken(ctx context.Context, token string, now time.Time) (core.User, error)
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userKey      contextKey = "user"
)

// Server wires the HTTP surface together.
type Server struct {
	http.Server

	repo   *storage.Repository
	ledger *services.LedgerService
	budget *budget.Service
	auth   Authenticator

	sessionTTL   time.Duration
	rateLimiter  *rateLimiter
	startedAt    time.Time
	shutdownOnce sync.Once
}

// Options carries the dependencies and tunables for NewServer.
type Options struct {
	Addr               string
	Repo               *storage.Repository
	Ledger             *services.LedgerService
	Budget             *budget.Service
	Auth               Authenticator
	SessionTTL         time.Duration
	RateLimitPerMinute int
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		repo:        opts.Repo,
		ledger:      opts.Ledger,
		budget:      opts.Budget,
		auth:        opts.Auth,
		sessionTTL:  opts.SessionTTL,
		rateLimiter: newRateLimiter(opts.RateLimitPerMinute),
		startedAt:   time.Now(),
	}

	mux.HandleFunc("GET /", s.wrap(s.handleRoot))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/register", s.wrap(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.wrap(s.handleLogin))
	mux.HandleFunc("GET /api/auth/me", s.wrap(s.requireUser(s.handleMe)))
	mux.HandleFunc("POST /api/auth/logout", s.wrap(s.requireUser(s.handleLogout)))

	mux.HandleFunc("POST /api/incomes", s.wrap(s.requireUser(s.handleCreateIncome)))
	mux.HandleFunc("GET /api/incomes", s.wrap(s.requireUser(s.handleListIncomes)))
	mux.HandleFunc("GET /api/incomes/{id}", s.wrap(s.requireUser(s.handleGetIncome)))
	mux.HandleFunc("PUT /api/incomes/{id}", s.wrap(s.requireUser(s.handleUpdateIncome)))
	mux.HandleFunc("DELETE /api/incomes/{id}", s.wrap(s.requireUser(s.handleDeleteIncome)))

	mux.HandleFunc("POST /api/expenses", s.wrap(s.requireUser(s.handleCreateExpense)))
	mux.HandleFunc("GET /api/expenses", s.wrap(s.requireUser(s.handleListExpenses)))
	mux.HandleFunc("GET /api/expenses/{id}", s.wrap(s.requireUser(s.handleGetExpense)))
	mux.HandleFunc("PUT /api/expenses/{id}", s.wrap(s.requireUser(s.handleUpdateExpense)))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.wrap(s.requireUser(s.handleDeleteExpense)))

	mux.HandleFunc("POST /api/savings", s.wrap(s.requireUser(s.handleCreateSaving)))
	mux.HandleFunc("GET /api/savings", s.wrap(s.requireUser(s.handleListSavings)))
	mux.HandleFunc("GET /api/savings/{id}", s.wrap(s.requireUser(s.handleGetSaving)))
	mux.HandleFunc("PUT /api/savings/{id}", s.wrap(s.requireUser(s.handleUpdateSaving)))
	mux.HandleFunc("DELETE /api/savings/{id}", s.wrap(s.requireUser(s.handleDeleteSaving)))

	mux.HandleFunc("POST /api/assets", s.wrap(s.requireUser(s.handleCreateAsset)))
	mux.HandleFunc("GET /api/assets", s.wrap(s.requireUser(s.handleListAssets)))
	mux.HandleFunc("GET /api/assets/{id}", s.wrap(s.requireUser(s.handleGetAsset)))
	mux.HandleFunc("PUT /api/assets/{id}", s.wrap(s.requireUser(s.handleUpdateAsset)))
	mux.HandleFunc("DELETE /api/assets/{id}", s.wrap(s.requireUser(s.handleDeleteAsset)))

	mux.HandleFunc("GET /api/calendar", s.wrap(s.requireUser(s.handleCalendar)))
	mux.HandleFunc("GET /api/budget/summary", s.wrap(s.requireUser(s.handleBudgetSummary)))

	mux.HandleFunc("OPTIONS /", s.handlePreflight)

	return s
}

// wrap adds request IDs, access logging, CORS and security headers, and
// rate limiting for mutating methods.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.rateLimiter.allow(clientIP) {
				slog.WarnContext(ctx, "Rate limit exceeded",
					"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
				return
			}
		}

		setCORSHeaders(w)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// requireUser resolves the bearer token and passes the user through the
// request context. Unauthenticated requests get a 401.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		user, err := s.auth.UserByToken(r.Context(), token, time.Now())
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	}
}

// currentUser returns the authenticated user placed by requireUser.
func currentUser(r *http.Request) core.User {
	user, _ := r.Context().Value(userKey).(core.User)
	return user
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return "", false
	}
	return h[len(prefix):], true
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the rate limiter cleanup goroutine and then the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
