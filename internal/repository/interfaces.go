// Package repository определяет интерфейсы персистентности данных.
package repository

import (
	"context"

	"github.com/zaimy/loanhub/internal/model"
)

// LoanRepository — интерфейс персистентности займов.
type LoanRepository interface {
	// List возвращает займы в порядке rating DESC, clicks DESC.
	// При activeOnly возвращаются только активные предложения.
	List(ctx context.Context, activeOnly bool) ([]model.Loan, error)

	// FindByID возвращает займ по идентификатору. Если займ не найден, возвращает nil.
	FindByID(ctx context.Context, id int64) (*model.Loan, error)

	// Create создаёт займ. Идентификатор и временные метки назначает база;
	// возвращается созданная запись целиком.
	Create(ctx context.Context, fields model.LoanFields) (*model.Loan, error)

	// Update полностью обновляет поля займа и updated_at.
	// Если займ не найден, возвращает (nil, nil).
	Update(ctx context.Context, id int64, fields model.LoanFields) (*model.Loan, error)

	// Delete удаляет займ. Возвращает false, если займ не найден.
	Delete(ctx context.Context, id int64) (bool, error)

	// IncrementClicks увеличивает счётчик кликов займа на 1.
	IncrementClicks(ctx context.Context, id int64) error

	// IncrementConversions увеличивает счётчик конверсий займа на 1.
	IncrementConversions(ctx context.Context, id int64) error

	// UpdateRatingStats записывает пересчитанные рейтинг и число отзывов.
	// Используется воркером сверки.
	UpdateRatingStats(ctx context.Context, id int64, rating float64, reviewCount int) error
}

// ReviewRepository — интерфейс персистентности отзывов.
type ReviewRepository interface {
	// ListApprovedByLoan возвращает одобренные отзывы займа, новые первыми.
	ListApprovedByLoan(ctx context.Context, loanID int64) ([]model.Review, error)

	// Create создаёт отзыв в состоянии «на модерации» (is_approved = false).
	// Возвращает созданную запись.
	Create(ctx context.Context, review model.NewReview) (*model.Review, error)

	// ApprovedStatsByLoan возвращает агрегаты одобренных отзывов по всем займам:
	// число отзывов и среднюю оценку. Займы без одобренных отзывов не включаются.
	ApprovedStatsByLoan(ctx context.Context) ([]LoanReviewStats, error)
}

// LoanReviewStats — агрегат одобренных отзывов одного займа.
type LoanReviewStats struct {
	LoanID        int64
	ReviewCount   int
	AverageRating float64
}
