package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zaimy/loanhub/internal/model"
)

// PostgresReviewRepo — репозиторий отзывов на PostgreSQL.
type PostgresReviewRepo struct {
	db *sql.DB
}

// NewPostgresReviewRepo создаёт PostgresReviewRepo.
func NewPostgresReviewRepo(db *sql.DB) *PostgresReviewRepo {
	return &PostgresReviewRepo{db: db}
}

// ListApprovedByLoan возвращает одобренные отзывы займа, новые первыми.
func (r *PostgresReviewRepo) ListApprovedByLoan(ctx context.Context, loanID int64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, loan_id, author_name, rating, comment, is_approved, created_at
		 FROM reviews
		 WHERE loan_id = $1 AND is_approved = true
		 ORDER BY created_at DESC`,
		loanID,
	)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить отзывы: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(
			&rev.ID, &rev.LoanID, &rev.AuthorName, &rev.Rating,
			&rev.Comment, &rev.IsApproved, &rev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("не удалось прочитать запись отзыва: %w", err)
		}
		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обходе списка отзывов: %w", err)
	}

	return reviews, nil
}

// Create создаёт отзыв в состоянии «на модерации».
func (r *PostgresReviewRepo) Create(ctx context.Context, review model.NewReview) (*model.Review, error) {
	created := &model.Review{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO reviews (loan_id, author_name, rating, comment, is_approved)
		 VALUES ($1, $2, $3, $4, false)
		 RETURNING id, loan_id, author_name, rating, comment, is_approved, created_at`,
		review.LoanID, review.AuthorName, review.Rating, review.Comment,
	).Scan(
		&created.ID, &created.LoanID, &created.AuthorName, &created.Rating,
		&created.Comment, &created.IsApproved, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать отзыв: %w", err)
	}
	return created, nil
}

// ApprovedStatsByLoan возвращает агрегаты одобренных отзывов по всем займам.
func (r *PostgresReviewRepo) ApprovedStatsByLoan(ctx context.Context) ([]LoanReviewStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT loan_id, COUNT(*), AVG(rating)
		 FROM reviews
		 WHERE is_approved = true
		 GROUP BY loan_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить агрегаты отзывов: %w", err)
	}
	defer rows.Close()

	var stats []LoanReviewStats
	for rows.Next() {
		var s LoanReviewStats
		if err := rows.Scan(&s.LoanID, &s.ReviewCount, &s.AverageRating); err != nil {
			return nil, fmt.Errorf("не удалось прочитать агрегат отзывов: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обходе агрегатов отзывов: %w", err)
	}

	return stats, nil
}

// compile-time interface check
var _ ReviewRepository = (*PostgresReviewRepo)(nil)
