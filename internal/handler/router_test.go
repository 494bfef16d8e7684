package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zaimy/loanhub/internal/metrics"
	"github.com/zaimy/loanhub/internal/middleware"
	"github.com/zaimy/loanhub/internal/model"
	"golang.org/x/time/rate"
)

// okPinger всегда отвечает успешно.
type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

// downPinger имитирует недоступную базу.
type downPinger struct{}

func (downPinger) PingContext(context.Context) error { return errors.New("connection refused") }

func newTestRouter(t *testing.T, loanSvc LoanServiceInterface, reviewSvc ReviewServiceInterface, db Pinger) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     rate.Limit(1000),
		GeneralBurst:    1000,
		ReviewRate:      rate.Limit(1000),
		ReviewBurst:     1000,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(rl.Stop)

	reg := prometheus.NewRegistry()

	return NewRouter(&RouterDeps{
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),
		CORSAllowedOrigin: "http://localhost:3000",
		AdminToken:        "secret-token",
		RateLimiter:       rl,
		LoanService:       loanSvc,
		ReviewService:     reviewSvc,
		DB:                db,
		Collector:         metrics.NewCollector(reg),
		Gatherer:          reg,
	})
}

func TestRouter_ListLoans(t *testing.T) {
	loanSvc := &mockLoanService{
		listFn: func(ctx context.Context, activeOnly bool) ([]model.Loan, error) {
			return []model.Loan{*testLoan()}, nil
		},
	}
	router := newTestRouter(t, loanSvc, &mockReviewService{}, okPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_AdminRoutesRequireToken(t *testing.T) {
	tests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/api/loans", "{}"},
		{http.MethodPut, "/api/loans?id=1", "{}"},
		{http.MethodDelete, "/api/loans?id=1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			router := newTestRouter(t, &mockLoanService{}, &mockReviewService{}, okPinger{})

			req := httptest.NewRequest(tt.method, tt.target, bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d без токена", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRouter_AdminRouteWithToken(t *testing.T) {
	loanSvc := &mockLoanService{
		createFn: func(ctx context.Context, fields model.LoanFields) (*model.Loan, error) {
			return testLoan(), nil
		},
	}
	router := newTestRouter(t, loanSvc, &mockReviewService{}, okPinger{})

	req := httptest.NewRequest(http.MethodPost, "/api/loans", bytes.NewReader([]byte("{}")))
	req.Header.Set(middleware.AdminTokenHeader, "secret-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestRouter_TrackClickRoute(t *testing.T) {
	var tracked int64
	loanSvc := &mockLoanService{
		trackClickFn: func(ctx context.Context, id int64) error {
			tracked = id
			return nil
		},
	}
	router := newTestRouter(t, loanSvc, &mockReviewService{}, okPinger{})

	req := httptest.NewRequest(http.MethodPost, "/api/loans/7/click", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if tracked != 7 {
		t.Errorf("tracked id = %d, want 7", tracked)
	}
}

func TestRouter_SubmitReviewRoute(t *testing.T) {
	reviewSvc := &mockReviewService{
		submitFn: func(ctx context.Context, review model.NewReview) (*model.Review, error) {
			return &model.Review{ID: 1, LoanID: review.LoanID, AuthorName: review.AuthorName, Rating: review.Rating, Comment: review.Comment, CreatedAt: time.Now()}, nil
		},
	}
	router := newTestRouter(t, &mockLoanService{}, reviewSvc, okPinger{})

	body, _ := json.Marshal(map[string]any{"loan_id": 1, "author_name": "Анна", "rating": 5, "comment": "Одобрили быстро, рекомендую."})
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, &mockLoanService{}, &mockReviewService{}, okPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_HealthDBDown(t *testing.T) {
	router := newTestRouter(t, &mockLoanService{}, &mockReviewService{}, downPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t, &mockLoanService{}, &mockReviewService{}, okPinger{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_CORSHeadersPresent(t *testing.T) {
	router := newTestRouter(t, &mockLoanService{}, &mockReviewService{}, okPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}
