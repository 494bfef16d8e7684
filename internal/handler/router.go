package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zaimy/loanhub/internal/metrics"
	"github.com/zaimy/loanhub/internal/middleware"
)

// RouterDeps — зависимости NewRouter.
type RouterDeps struct {
	// мидлвари
	Logger            *slog.Logger
	CORSAllowedOrigin string
	AdminToken        string
	RateLimiter       *middleware.RateLimiter

	// сервисы
	LoanService   LoanServiceInterface
	ReviewService ReviewServiceInterface

	// инфраструктура
	DB        Pinger
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer
}

// NewRouter настраивает маршруты API и цепочку мидлварей.
//
// Порядок мидлварей:
//
//	RequestID → Logging → Recovery → SecurityHeaders → CORS → Metrics → RateLimit(General)
//
// Служебные маршруты /health и /metrics стоят вне цепочки лимитов.
// Мутации каталога дополнительно закрыты проверкой X-Admin-Token.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	loanHandler := NewLoanHandler(deps.LoanService, deps.Collector)
	reviewHandler := NewReviewHandler(deps.ReviewService, deps.Collector)
	healthHandler := NewHealthHandler(deps.DB)

	// --- служебные маршруты ---

	r.Get("/health", healthHandler.Check)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// --- маршруты API ---

	r.Group(func(r chi.Router) {
		r.Use(metrics.NewHTTPMiddleware(deps.Collector))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		adminOnly := middleware.NewAdminTokenMiddleware(deps.AdminToken)

		// каталог займов
		r.Route("/api/loans", func(r chi.Router) {
			r.Get("/", loanHandler.ListOrGet)

			// мутации — только администратор
			r.With(adminOnly).Post("/", loanHandler.Create)
			r.With(adminOnly).Put("/", loanHandler.Update)
			r.With(adminOnly).Delete("/", loanHandler.Delete)

			// счётчики кликов и конверсий
			r.Post("/{id}/click", loanHandler.TrackClick)
			r.Post("/{id}/conversion", loanHandler.TrackConversion)
		})

		// отзывы
		r.Route("/api/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.List)

			// отправка отзыва — отдельный, более строгий лимит
			r.With(deps.RateLimiter.ReviewSubmissionMiddleware()).Post("/", reviewHandler.Submit)
		})
	})

	return r
}
