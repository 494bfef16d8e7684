// Package app связывает зависимости и запускает приложение
// в одном из режимов: serve, worker, migrate, healthcheck.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zaimy/loanhub/internal/config"
	"github.com/zaimy/loanhub/internal/database"
	"github.com/zaimy/loanhub/internal/handler"
	"github.com/zaimy/loanhub/internal/loan"
	"github.com/zaimy/loanhub/internal/logger"
	"github.com/zaimy/loanhub/internal/metrics"
	"github.com/zaimy/loanhub/internal/middleware"
	"github.com/zaimy/loanhub/internal/repository"
	"github.com/zaimy/loanhub/internal/review"
	"github.com/zaimy/loanhub/internal/security"
	"github.com/zaimy/loanhub/internal/worker/cleanup"
	"github.com/zaimy/loanhub/internal/worker/reconcile"
)

// Init инициализирует приложение: настраивает JSON-лог
// и читает конфигурацию из окружения.
func Init(w io.Writer) (*config.Config, error) {
	// лог поднимается до чтения конфигурации
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run — точка входа приложения.
// Разбирает подкоманду и запускает соответствующий режим.
// В args передаётся os.Args[1:].
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck обходится без полной инициализации
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe запускает API-сервер.
// Открывает соединение с базой, собирает зависимости и слушает HTTP.
// По SIGINT или SIGTERM выполняется корректное завершение.
func runServe(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// репозитории
	loanRepo := repository.NewPostgresLoanRepo(db)
	reviewRepo := repository.NewPostgresReviewRepo(db)

	// сервисы
	sanitizer := security.NewContentSanitizer()
	loanService := loan.NewService(loanRepo)
	reviewService := review.NewService(reviewRepo, sanitizer)

	// метрики
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitReviews),
	)
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		AdminToken:        cfg.AdminToken,
		RateLimiter:       rateLimiter,
		LoanService:       loanService,
		ReviewService:     reviewService,
		DB:                db,
		Collector:         collector,
		Gatherer:          registry,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker запускает воркер сверки рейтингов.
// По SIGINT или SIGTERM воркер останавливается.
func runWorker(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	loanRepo := repository.NewPostgresLoanRepo(db)
	reviewRepo := repository.NewPostgresReviewRepo(db)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	job := reconcile.NewJob(loanRepo, reviewRepo, slog.Default(), collector)
	cleanupJob := cleanup.NewCleanupJob(db, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("reconcile_interval", cfg.ReconcileInterval),
	)

	// очистка просроченных неодобренных отзывов выполняется ежедневно
	go func() {
		if err := cleanupJob.Run(ctx); err != nil {
			slog.Error("cleanup job failed", slog.String("error", err.Error()))
		}

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := cleanupJob.Run(ctx); err != nil {
					slog.Error("cleanup job failed", slog.String("error", err.Error()))
				}
			}
		}
	}()

	// цикл сверки блокирует главную горутину до отмены контекста
	job.Start(ctx, cfg.ReconcileInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate применяет все неприменённые миграции базы данных.
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck опрашивает /health локального сервера.
// Подкоманда для Docker-healthcheck в distroless-образе.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL скрывает учётные данные в URL базы.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
