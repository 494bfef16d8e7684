// Package loan содержит доменную логику каталога займов.
package loan

import (
	"context"
	"fmt"

	"github.com/zaimy/loanhub/internal/model"
	"github.com/zaimy/loanhub/internal/repository"
)

// Ограничения полей займа.
const (
	maxNameLen = 255
	maxLogoLen = 10
)

// Service — сервисный слой каталога займов.
// Валидирует поля и делегирует персистентность репозиторию.
type Service struct {
	loanRepo repository.LoanRepository
}

// NewService создаёт Service.
func NewService(loanRepo repository.LoanRepository) *Service {
	return &Service{loanRepo: loanRepo}
}

// ListLoans возвращает займы в порядке rating DESC, clicks DESC.
func (s *Service) ListLoans(ctx context.Context, activeOnly bool) ([]model.Loan, error) {
	loans, err := s.loanRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить каталог займов: %w", err)
	}
	return loans, nil
}

// GetLoan возвращает займ по идентификатору.
// Если займ не найден, возвращается APIError с кодом LOAN_NOT_FOUND.
func (s *Service) GetLoan(ctx context.Context, id int64) (*model.Loan, error) {
	l, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить займ: %w", err)
	}
	if l == nil {
		return nil, model.NewLoanNotFoundError()
	}
	return l, nil
}

// CreateLoan валидирует поля и создаёт займ.
func (s *Service) CreateLoan(ctx context.Context, fields model.LoanFields) (*model.Loan, error) {
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}

	created, err := s.loanRepo.Create(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать займ: %w", err)
	}
	return created, nil
}

// UpdateLoan валидирует поля и полностью обновляет займ.
// Если займ не найден, возвращается APIError с кодом LOAN_NOT_FOUND.
func (s *Service) UpdateLoan(ctx context.Context, id int64, fields model.LoanFields) (*model.Loan, error) {
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}

	updated, err := s.loanRepo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("не удалось обновить займ: %w", err)
	}
	if updated == nil {
		return nil, model.NewLoanNotFoundError()
	}
	return updated, nil
}

// DeleteLoan удаляет займ.
// Если займ не найден, возвращается APIError с кодом LOAN_NOT_FOUND.
func (s *Service) DeleteLoan(ctx context.Context, id int64) error {
	deleted, err := s.loanRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("не удалось удалить займ: %w", err)
	}
	if !deleted {
		return model.NewLoanNotFoundError()
	}
	return nil
}

// TrackClick фиксирует клик по займу.
func (s *Service) TrackClick(ctx context.Context, id int64) error {
	if err := s.loanRepo.IncrementClicks(ctx, id); err != nil {
		return fmt.Errorf("не удалось зафиксировать клик: %w", err)
	}
	return nil
}

// TrackConversion фиксирует конверсию по займу.
func (s *Service) TrackConversion(ctx context.Context, id int64) error {
	if err := s.loanRepo.IncrementConversions(ctx, id); err != nil {
		return fmt.Errorf("не удалось зафиксировать конверсию: %w", err)
	}
	return nil
}

// ValidateFields проверяет поля займа перед записью.
// Границы соответствуют контракту хранилища: непустое название до 255 символов,
// логотип до 10 символов, неотрицательные суммы (min ≤ max), положительные сроки
// (min ≤ max), неотрицательная ставка, одобрение 0–100, рейтинг 0–5.
func ValidateFields(f model.LoanFields) error {
	switch {
	case f.Name == "":
		return model.NewValidationError("название не заполнено")
	case len([]rune(f.Name)) > maxNameLen:
		return model.NewValidationError("название длиннее 255 символов")
	case f.Logo == "":
		return model.NewValidationError("логотип не заполнен")
	case len([]rune(f.Logo)) > maxLogoLen:
		return model.NewValidationError("логотип длиннее 10 символов")
	case f.AmountMin < 0:
		return model.NewValidationError("минимальная сумма отрицательна")
	case f.AmountMax < f.AmountMin:
		return model.NewValidationError("максимальная сумма меньше минимальной")
	case f.TermMin < 1:
		return model.NewValidationError("минимальный срок меньше 1 дня")
	case f.TermMax < f.TermMin:
		return model.NewValidationError("максимальный срок меньше минимального")
	case f.Rate < 0:
		return model.NewValidationError("ставка отрицательна")
	case f.ApprovalRate < 0 || f.ApprovalRate > 100:
		return model.NewValidationError("процент одобрения вне диапазона 0–100")
	case f.Rating < 0 || f.Rating > 5:
		return model.NewValidationError("рейтинг вне диапазона 0–5")
	case f.Reviews < 0:
		return model.NewValidationError("число отзывов отрицательно")
	case f.Color == "":
		return model.NewValidationError("цвет градиента не заполнен")
	}
	return nil
}
