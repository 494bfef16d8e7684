package repository

import (
	"testing"

	"github.com/zaimy/loanhub/internal/model"
)

// PostgresReviewRepo удовлетворяет интерфейсу ReviewRepository
func TestPostgresReviewRepo_ImplementsInterface(t *testing.T) {
	var _ ReviewRepository = (*PostgresReviewRepo)(nil)
}

// NewPostgresReviewRepo корректно инициализируется
func TestNewPostgresReviewRepo_Initializes(t *testing.T) {
	repo := NewPostgresReviewRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// Новый отзыв до сохранения не имеет флага одобрения
func TestPostgresReviewRepo_NewReview_Fields(t *testing.T) {
	rev := model.NewReview{
		LoanID:     3,
		AuthorName: "Иван И.",
		Rating:     5,
		Comment:    "Быстро одобрили, деньги пришли через пять минут.",
	}

	if rev.LoanID != 3 {
		t.Errorf("rev.LoanID = %d, want 3", rev.LoanID)
	}
	if rev.Rating < 1 || rev.Rating > 5 {
		t.Errorf("rating %d out of range 1..5", rev.Rating)
	}
}
