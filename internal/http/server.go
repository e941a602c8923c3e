// Package http exposes the ledger as a JSON API. All mutation handlers
// serialize through a single mutex; the ledger itself does no locking.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"tracker/internal/ledger"
	applog "tracker/internal/log"
	"tracker/internal/normalize"
	"tracker/internal/storage"
)

// SyncPublisher pushes export-sync notifications after mutations. A nil
// publisher disables export sync; publish failures are logged, never
// surfaced to the API caller.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, version int64) error
	PublishTransactionDelete(ctx context.Context, id int64) error
}

type Server struct {
	http.Server

	// mu serializes all ledger mutations.
	mu     sync.Mutex
	ledger *ledger.Ledger
	repo   *storage.SQLiteRepository
	pub    SyncPublisher
	logger *applog.Logger

	normalizer  *normalize.Normalizer
	rateLimiter *rateLimiter
}

// NewServer configures routes and returns a ready-to-run server. repo and
// pub may be nil: a nil repo skips persistence, a nil pub skips export
// notifications. importFormats extends the date formats accepted by the
// import endpoint.
func NewServer(addr string, led *ledger.Ledger, repo *storage.SQLiteRepository, pub SyncPublisher, importFormats []string, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	var normOpts []normalize.Option
	if len(importFormats) > 0 {
		normOpts = append(normOpts, normalize.WithDateFormats(importFormats...))
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:      led,
		repo:        repo,
		pub:         pub,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		normalizer:  normalize.New(normOpts...),
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/transactions", s.wrap(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", s.wrap(s.handleListTransactions))
	mux.HandleFunc("GET /api/transactions/{id}", s.wrap(s.handleGetTransaction))
	mux.HandleFunc("PATCH /api/transactions/{id}", s.wrap(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.wrap(s.handleDeleteTransaction))

	mux.HandleFunc("POST /api/import", s.wrap(s.handleImport))

	mux.HandleFunc("GET /api/categories", s.wrap(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.wrap(s.handleCreateCategory))
	mux.HandleFunc("PATCH /api/categories/{name}", s.wrap(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{name}", s.wrap(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/budgets", s.wrap(s.handleListBudgets))
	mux.HandleFunc("GET /api/budgets/alerts", s.wrap(s.handleBudgetAlerts))
	mux.HandleFunc("PUT /api/budgets/{category}", s.wrap(s.handleSetBudget))
	mux.HandleFunc("DELETE /api/budgets/{category}", s.wrap(s.handleRemoveBudget))

	mux.HandleFunc("GET /api/insights/totals", s.wrap(s.handlePeriodTotals))
	mux.HandleFunc("GET /api/insights/categories", s.wrap(s.handleCategoryTotals))
	mux.HandleFunc("GET /api/insights/balance", s.wrap(s.handleRunningBalance))
	mux.HandleFunc("GET /api/report", s.wrap(s.handleReport))

	return s
}

// Shutdown stops the server and its rate limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.stop()
	}
	return s.Server.Shutdown(ctx)
}

// wrap adds request ids, access logging, security headers and write rate
// limiting around a handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)
		w.Header().Set("X-Request-ID", requestID)

		clientIP := clientAddr(r)
		if isWrite(r.Method) && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		s.logger.InfoContext(ctx, "Request handled",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rec.status,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func clientAddr(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
