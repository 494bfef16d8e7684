package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/zaimy/loanhub/internal/model"
)

// loanColumns — список колонок займа в порядке сканирования.
const loanColumns = `id, name, logo, amount_min, amount_max, term_min, term_max,
	rate, approval_rate, rating, reviews, features, requirements,
	color, clicks, conversions, is_active, created_at, updated_at`

// PostgresLoanRepo — репозиторий займов на PostgreSQL.
type PostgresLoanRepo struct {
	db *sql.DB
}

// NewPostgresLoanRepo создаёт PostgresLoanRepo.
func NewPostgresLoanRepo(db *sql.DB) *PostgresLoanRepo {
	return &PostgresLoanRepo{db: db}
}

// scanLoan читает одну строку результата в model.Loan.
func scanLoan(s interface{ Scan(...any) error }) (*model.Loan, error) {
	loan := &model.Loan{}
	var features, requirements pq.StringArray

	err := s.Scan(
		&loan.ID, &loan.Name, &loan.Logo,
		&loan.AmountMin, &loan.AmountMax, &loan.TermMin, &loan.TermMax,
		&loan.Rate, &loan.ApprovalRate, &loan.Rating, &loan.Reviews,
		&features, &requirements,
		&loan.Color, &loan.Clicks, &loan.Conversions, &loan.IsActive,
		&loan.CreatedAt, &loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	loan.Features = []string(features)
	loan.Requirements = []string(requirements)
	return loan, nil
}

// List возвращает займы в порядке rating DESC, clicks DESC.
func (r *PostgresLoanRepo) List(ctx context.Context, activeOnly bool) ([]model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY rating DESC, clicks DESC`
	if activeOnly {
		query = `SELECT ` + loanColumns + ` FROM loans WHERE is_active = true ORDER BY rating DESC, clicks DESC`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить список займов: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("не удалось прочитать запись займа: %w", err)
		}
		loans = append(loans, *loan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обходе списка займов: %w", err)
	}

	return loans, nil
}

// FindByID возвращает займ по идентификатору. Если займ не найден, возвращает nil.
func (r *PostgresLoanRepo) FindByID(ctx context.Context, id int64) (*model.Loan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)

	loan, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось получить займ: %w", err)
	}
	return loan, nil
}

// Create создаёт займ и возвращает созданную запись.
func (r *PostgresLoanRepo) Create(ctx context.Context, fields model.LoanFields) (*model.Loan, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO loans (name, logo, amount_min, amount_max, term_min, term_max,
		                    rate, approval_rate, rating, reviews, features, requirements,
		                    color, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING `+loanColumns,
		fields.Name, fields.Logo, fields.AmountMin, fields.AmountMax,
		fields.TermMin, fields.TermMax, fields.Rate, fields.ApprovalRate,
		fields.Rating, fields.Reviews,
		pq.Array(fields.Features), pq.Array(fields.Requirements),
		fields.Color, fields.IsActive,
	)

	loan, err := scanLoan(row)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать займ: %w", err)
	}
	return loan, nil
}

// Update полностью обновляет поля займа. Если займ не найден, возвращает (nil, nil).
func (r *PostgresLoanRepo) Update(ctx context.Context, id int64, fields model.LoanFields) (*model.Loan, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE loans SET
		    name = $2, logo = $3, amount_min = $4, amount_max = $5,
		    term_min = $6, term_max = $7, rate = $8, approval_rate = $9,
		    rating = $10, reviews = $11, features = $12, requirements = $13,
		    color = $14, is_active = $15, updated_at = now()
		 WHERE id = $1
		 RETURNING `+loanColumns,
		id,
		fields.Name, fields.Logo, fields.AmountMin, fields.AmountMax,
		fields.TermMin, fields.TermMax, fields.Rate, fields.ApprovalRate,
		fields.Rating, fields.Reviews,
		pq.Array(fields.Features), pq.Array(fields.Requirements),
		fields.Color, fields.IsActive,
	)

	loan, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось обновить займ: %w", err)
	}
	return loan, nil
}

// Delete удаляет займ. Возвращает false, если займ не найден.
func (r *PostgresLoanRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var deletedID int64
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM loans WHERE id = $1 RETURNING id`, id).Scan(&deletedID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("не удалось удалить займ: %w", err)
	}
	return true, nil
}

// IncrementClicks увеличивает счётчик кликов на 1.
func (r *PostgresLoanRepo) IncrementClicks(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE loans SET clicks = clicks + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("не удалось записать клик: %w", err)
	}
	return nil
}

// IncrementConversions увеличивает счётчик конверсий на 1.
func (r *PostgresLoanRepo) IncrementConversions(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE loans SET conversions = conversions + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("не удалось записать конверсию: %w", err)
	}
	return nil
}

// UpdateRatingStats записывает пересчитанные рейтинг и число отзывов.
func (r *PostgresLoanRepo) UpdateRatingStats(ctx context.Context, id int64, rating float64, reviewCount int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE loans SET rating = $2, reviews = $3, updated_at = now() WHERE id = $1`,
		id, rating, reviewCount)
	if err != nil {
		return fmt.Errorf("не удалось обновить статистику отзывов: %w", err)
	}
	return nil
}

// compile-time interface check
var _ LoanRepository = (*PostgresLoanRepo)(nil)
