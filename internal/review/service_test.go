package review

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zaimy/loanhub/internal/model"
	"github.com/zaimy/loanhub/internal/repository"
)

// --- мок ReviewRepository ---

type mockReviewRepo struct {
	reviews     []model.Review
	nextID      int64
	createCalls int
	listCalls   int
	createErr   error
	listErr     error
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{nextID: 1}
}

func (m *mockReviewRepo) ListApprovedByLoan(_ context.Context, loanID int64) ([]model.Review, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Review
	for _, r := range m.reviews {
		if r.LoanID == loanID && r.IsApproved {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) Create(_ context.Context, review model.NewReview) (*model.Review, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := model.Review{
		ID:         m.nextID,
		LoanID:     review.LoanID,
		AuthorName: review.AuthorName,
		Rating:     review.Rating,
		Comment:    review.Comment,
		IsApproved: false,
		CreatedAt:  time.Now(),
	}
	m.nextID++
	m.reviews = append(m.reviews, created)
	return &created, nil
}

func (m *mockReviewRepo) ApprovedStatsByLoan(_ context.Context) ([]repository.LoanReviewStats, error) {
	return nil, nil
}

// compile-time interface check
var _ repository.ReviewRepository = (*mockReviewRepo)(nil)

// --- фейковый санитайзер ---

// passthroughSanitizer возвращает текст без изменений.
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(s string) string { return s }

// strippingSanitizer вырезает содержимое угловых скобок,
// имитируя удаление HTML-тегов.
type strippingSanitizer struct{}

func (strippingSanitizer) Sanitize(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validNewReview() model.NewReview {
	return model.NewReview{
		LoanID:     1,
		AuthorName: "Анна К.",
		Rating:     5,
		Comment:    "Одобрили за пятнадцать минут, деньги пришли на карту сразу.",
	}
}

func TestSubmitReview(t *testing.T) {
	repo := newMockReviewRepo()
	svc := NewService(repo, passthroughSanitizer{})

	created, err := svc.SubmitReview(context.Background(), validNewReview())
	if err != nil {
		t.Fatalf("SubmitReview() error = %v", err)
	}
	if created.IsApproved {
		t.Error("новый отзыв должен создаваться неодобренным")
	}
	if repo.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", repo.createCalls)
	}
}

func TestSubmitReviewNotListedUntilApproved(t *testing.T) {
	repo := newMockReviewRepo()
	svc := NewService(repo, passthroughSanitizer{})

	if _, err := svc.SubmitReview(context.Background(), validNewReview()); err != nil {
		t.Fatalf("SubmitReview() error = %v", err)
	}

	reviews, err := svc.ListReviews(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListReviews() error = %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("len(reviews) = %d, want 0: отзыв на модерации не публикуется", len(reviews))
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*model.NewReview)
	}{
		{"нулевой идентификатор займа", func(r *model.NewReview) { r.LoanID = 0 }},
		{"пустое имя автора", func(r *model.NewReview) { r.AuthorName = "  " }},
		{"слишком длинное имя автора", func(r *model.NewReview) { r.AuthorName = strings.Repeat("я", 256) }},
		{"оценка ниже диапазона", func(r *model.NewReview) { r.Rating = 0 }},
		{"оценка выше диапазона", func(r *model.NewReview) { r.Rating = 6 }},
		{"слишком короткий текст", func(r *model.NewReview) { r.Comment = "Норм" }},
		{"слишком длинный текст", func(r *model.NewReview) { r.Comment = strings.Repeat("ю", 2001) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockReviewRepo()
			svc := NewService(repo, passthroughSanitizer{})

			review := validNewReview()
			tt.modify(&review)

			_, err := svc.SubmitReview(context.Background(), review)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
				t.Fatalf("SubmitReview() error = %v, want VALIDATION_FAILED", err)
			}
			if repo.createCalls != 0 {
				t.Errorf("createCalls = %d, want 0: невалидный отзыв не сохраняется", repo.createCalls)
			}
		})
	}
}

func TestSubmitReviewSanitizesBeforeValidation(t *testing.T) {
	repo := newMockReviewRepo()
	svc := NewService(repo, strippingSanitizer{})

	review := validNewReview()
	review.Comment = "<b>Очень</b> удобный сервис, рекомендую всем знакомым."

	created, err := svc.SubmitReview(context.Background(), review)
	if err != nil {
		t.Fatalf("SubmitReview() error = %v", err)
	}
	if strings.Contains(created.Comment, "<") {
		t.Errorf("Comment = %q: HTML не вырезан", created.Comment)
	}
}

func TestSubmitReviewSanitizedCommentTooShort(t *testing.T) {
	repo := newMockReviewRepo()
	svc := NewService(repo, strippingSanitizer{})

	// после вырезания тегов остаётся меньше 10 символов
	review := validNewReview()
	review.Comment = "<b><i><u>Ок</u></i></b>"

	_, err := svc.SubmitReview(context.Background(), review)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
		t.Fatalf("SubmitReview() error = %v, want VALIDATION_FAILED", err)
	}
	if repo.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", repo.createCalls)
	}
}

func TestSubmitReviewRepositoryError(t *testing.T) {
	repo := newMockReviewRepo()
	repo.createErr = errors.New("connection refused")
	svc := NewService(repo, passthroughSanitizer{})

	if _, err := svc.SubmitReview(context.Background(), validNewReview()); err == nil {
		t.Fatal("SubmitReview() error = nil, want error")
	}
}

func TestListReviewsError(t *testing.T) {
	repo := newMockReviewRepo()
	repo.listErr = errors.New("connection refused")
	svc := NewService(repo, passthroughSanitizer{})

	if _, err := svc.ListReviews(context.Background(), 1); err == nil {
		t.Fatal("ListReviews() error = nil, want error")
	}
}
