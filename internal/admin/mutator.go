package admin

import (
	"context"
	"fmt"

	"github.com/zaimy/loanhub/internal/model"
)

// CatalogClient — операции каталога, которые использует админ-панель.
type CatalogClient interface {
	List(ctx context.Context, activeOnly bool) ([]model.Loan, error)
	Create(ctx context.Context, fields model.LoanFields) (*model.Loan, error)
	Update(ctx context.Context, id int64, fields model.LoanFields) (*model.Loan, error)
	Delete(ctx context.Context, id int64) error
}

// ConfirmFunc запрашивает у пользователя подтверждение удаления.
type ConfirmFunc func(loan model.Loan) bool

// Mutator управляет локальным списком займов админ-панели.
// Все мутации идут через хранилище: после успеха список
// перечитывается целиком, оптимистичных вставок нет. При любой
// ошибке транспорта локальный список остаётся прежним.
type Mutator struct {
	client CatalogClient
	loans  []model.Loan
}

// NewMutator создаёт Mutator с пустым локальным списком.
func NewMutator(client CatalogClient) *Mutator {
	return &Mutator{client: client}
}

// Loans возвращает текущий локальный список займов.
func (m *Mutator) Loans() []model.Loan {
	return m.loans
}

// Refresh перечитывает полный список займов из хранилища,
// включая скрытые предложения.
func (m *Mutator) Refresh(ctx context.Context) error {
	loans, err := m.client.List(ctx, false)
	if err != nil {
		return fmt.Errorf("не удалось обновить список займов: %w", err)
	}
	m.loans = loans
	return nil
}

// Create создаёт займ и перечитывает список из хранилища.
func (m *Mutator) Create(ctx context.Context, fields model.LoanFields) error {
	if _, err := m.client.Create(ctx, fields); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Update обновляет займ и перечитывает список из хранилища.
func (m *Mutator) Update(ctx context.Context, id int64, fields model.LoanFields) error {
	if _, err := m.client.Update(ctx, id, fields); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Delete удаляет займ после подтверждения.
// Если займа нет в локальном списке или confirm возвращает false,
// сетевых вызовов не происходит.
func (m *Mutator) Delete(ctx context.Context, id int64, confirm ConfirmFunc) error {
	var target *model.Loan
	for i := range m.loans {
		if m.loans[i].ID == id {
			target = &m.loans[i]
			break
		}
	}
	if target == nil {
		return model.NewLoanNotFoundError()
	}

	if !confirm(*target) {
		return nil
	}

	if err := m.client.Delete(ctx, id); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Summary — сводные показатели каталога для шапки админ-панели.
type Summary struct {
	Total       int
	Active      int
	Clicks      int64
	Conversions int64
}

// Summarize считает сводные показатели по локальному списку.
func (m *Mutator) Summarize() Summary {
	var s Summary
	for _, l := range m.loans {
		s.Total++
		if l.IsActive {
			s.Active++
		}
		s.Clicks += l.Clicks
		s.Conversions += l.Conversions
	}
	return s
}
