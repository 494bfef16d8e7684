// Package review содержит доменную логику отзывов о займах.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/zaimy/loanhub/internal/model"
	"github.com/zaimy/loanhub/internal/repository"
	"github.com/zaimy/loanhub/internal/security"
)

// Ограничения полей отзыва.
const (
	maxAuthorLen  = 255
	minCommentLen = 10
	maxCommentLen = 2000
)

// Service — сервисный слой отзывов.
// Валидирует ввод, очищает текст от HTML и делегирует персистентность репозиторию.
type Service struct {
	reviewRepo repository.ReviewRepository
	sanitizer  security.ContentSanitizerService
}

// NewService создаёт Service.
func NewService(reviewRepo repository.ReviewRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		reviewRepo: reviewRepo,
		sanitizer:  sanitizer,
	}
}

// ListReviews возвращает одобренные отзывы займа, новые первыми.
// Свежесозданные отзывы не попадают в список до одобрения модератором.
func (s *Service) ListReviews(ctx context.Context, loanID int64) ([]model.Review, error) {
	reviews, err := s.reviewRepo.ListApprovedByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить отзывы: %w", err)
	}
	return reviews, nil
}

// SubmitReview валидирует и сохраняет новый отзыв в состоянии «на модерации».
// Текстовые поля очищаются от HTML перед сохранением.
// Созданный отзыв возвращается вызывающему, но в публичный список не попадает.
func (s *Service) SubmitReview(ctx context.Context, review model.NewReview) (*model.Review, error) {
	review.AuthorName = strings.TrimSpace(s.sanitizer.Sanitize(review.AuthorName))
	review.Comment = strings.TrimSpace(s.sanitizer.Sanitize(review.Comment))

	if err := validateReview(review); err != nil {
		return nil, err
	}

	created, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("не удалось сохранить отзыв: %w", err)
	}
	return created, nil
}

// validateReview проверяет поля отзыва перед сохранением.
func validateReview(r model.NewReview) error {
	switch {
	case r.LoanID < 1:
		return model.NewValidationError("идентификатор займа не задан")
	case r.AuthorName == "":
		return model.NewValidationError("имя автора не заполнено")
	case len([]rune(r.AuthorName)) > maxAuthorLen:
		return model.NewValidationError("имя автора длиннее 255 символов")
	case r.Rating < 1 || r.Rating > 5:
		return model.NewValidationError("оценка вне диапазона 1–5")
	case len([]rune(r.Comment)) < minCommentLen:
		return model.NewValidationError("текст отзыва короче 10 символов")
	case len([]rune(r.Comment)) > maxCommentLen:
		return model.NewValidationError("текст отзыва длиннее 2000 символов")
	}
	return nil
}
