// Package reconcile содержит фоновую сверку рейтингов займов.
// Хранимые рейтинг и счётчик отзывов займа пересчитываются из
// одобренных отзывов и постепенно сходятся к фактическим значениям.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/zaimy/loanhub/internal/repository"
)

// StatsRecorder записывает результаты сверки в метрики.
type StatsRecorder interface {
	RecordReconcileRun(updated int)
}

// Job пересчитывает рейтинг и число отзывов каждого займа
// по одобренным отзывам и записывает расхождения обратно.
// Займы без единого одобренного отзыва не трогаются: их рейтинг
// и счётчик заданы администратором и остаются как есть.
// Запуск идемпотентен.
type Job struct {
	loanRepo   repository.LoanRepository
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
	recorder   StatsRecorder
}

// NewJob создаёт Job.
func NewJob(loanRepo repository.LoanRepository, reviewRepo repository.ReviewRepository, logger *slog.Logger, recorder StatsRecorder) *Job {
	return &Job{
		loanRepo:   loanRepo,
		reviewRepo: reviewRepo,
		logger:     logger,
		recorder:   recorder,
	}
}

// Run выполняет один цикл сверки.
func (j *Job) Run(ctx context.Context) error {
	start := time.Now()

	stats, err := j.reviewRepo.ApprovedStatsByLoan(ctx)
	if err != nil {
		return fmt.Errorf("не удалось получить агрегаты отзывов: %w", err)
	}

	byLoan := make(map[int64]repository.LoanReviewStats, len(stats))
	for _, s := range stats {
		byLoan[s.LoanID] = s
	}

	loans, err := j.loanRepo.List(ctx, false)
	if err != nil {
		return fmt.Errorf("не удалось получить список займов: %w", err)
	}

	updated := 0
	for _, l := range loans {
		s, ok := byLoan[l.ID]
		if !ok {
			continue
		}

		rating := roundRating(s.AverageRating)
		if l.Rating == rating && l.Reviews == s.ReviewCount {
			continue
		}

		if err := j.loanRepo.UpdateRatingStats(ctx, l.ID, rating, s.ReviewCount); err != nil {
			j.logger.Error("не удалось записать пересчитанный рейтинг",
				slog.Int64("loan_id", l.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		updated++
	}

	j.recorder.RecordReconcileRun(updated)

	j.logger.Info("сверка рейтингов завершена",
		slog.Int("loans_total", len(loans)),
		slog.Int("loans_updated", updated),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
	return nil
}

// Start запускает сверку по тикеру до отмены контекста.
// Первый цикл выполняется сразу после старта.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("воркер сверки рейтингов запущен",
		slog.Duration("interval", interval),
	)

	if err := j.Run(ctx); err != nil {
		j.logger.Error("цикл сверки завершился ошибкой", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("воркер сверки рейтингов остановлен")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("цикл сверки завершился ошибкой", slog.String("error", err.Error()))
			}
		}
	}
}

// roundRating округляет средний рейтинг до одного знака после запятой.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
