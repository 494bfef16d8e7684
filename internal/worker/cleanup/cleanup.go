// Package cleanup содержит задачу автоудаления отзывов.
// Отзывы, не прошедшие модерацию за период хранения (по умолчанию 90 дней),
// удаляются ежедневным батчем: они никогда не публикуются и только копят место.
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor абстрагирует ExecContext. Принимает *sql.DB и *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CleanupJob — задача удаления просроченных неодобренных отзывов.
// Рассчитана на ежедневный запуск, удаление идемпотентно.
type CleanupJob struct {
	db            Executor
	logger        *slog.Logger
	RetentionDays int // срок хранения неодобренных отзывов в днях
}

// NewCleanupJob создаёт CleanupJob со сроком хранения 90 дней.
func NewCleanupJob(db Executor, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		db:            db,
		logger:        logger,
		RetentionDays: 90,
	}
}

// Run удаляет неодобренные отзывы старше срока хранения.
// Одобренные отзывы не затрагиваются. Отсутствие кандидатов — не ошибка.
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	interval := fmt.Sprintf("%d days", j.RetentionDays)

	query := `DELETE FROM reviews WHERE is_approved = FALSE AND created_at < now() - $1::interval`
	result, err := j.db.ExecContext(ctx, query, interval)
	if err != nil {
		j.logger.Error("не удалось выполнить очистку отзывов",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return fmt.Errorf("не удалось выполнить очистку отзывов: %w", err)
	}

	deletedCount, err := result.RowsAffected()
	if err != nil {
		j.logger.Error("не удалось получить число удалённых отзывов",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("не удалось получить число удалённых отзывов: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("очистка отзывов завершена",
		slog.Int64("deleted_count", deletedCount),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
