package admin

import (
	"context"
	"testing"

	"github.com/zaimy/loanhub/internal/model"
)

// --- мок CatalogClient ---

type mockCatalogClient struct {
	loans       []model.Loan
	nextID      int64
	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
	listErr     error
	createErr   error
	updateErr   error
	deleteErr   error
}

func newMockCatalogClient(loans ...model.Loan) *mockCatalogClient {
	nextID := int64(1)
	for _, l := range loans {
		if l.ID >= nextID {
			nextID = l.ID + 1
		}
	}
	return &mockCatalogClient{loans: loans, nextID: nextID}
}

func (m *mockCatalogClient) List(_ context.Context, activeOnly bool) ([]model.Loan, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Loan, 0, len(m.loans))
	for _, l := range m.loans {
		if activeOnly && !l.IsActive {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *mockCatalogClient) Create(_ context.Context, fields model.LoanFields) (*model.Loan, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	l := model.Loan{ID: m.nextID, Name: fields.Name, IsActive: fields.IsActive}
	m.nextID++
	m.loans = append(m.loans, l)
	return &l, nil
}

func (m *mockCatalogClient) Update(_ context.Context, id int64, fields model.LoanFields) (*model.Loan, error) {
	m.updateCalls++
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	for i := range m.loans {
		if m.loans[i].ID == id {
			m.loans[i].Name = fields.Name
			return &m.loans[i], nil
		}
	}
	return nil, model.NewLoanNotFoundError()
}

func (m *mockCatalogClient) Delete(_ context.Context, id int64) error {
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i := range m.loans {
		if m.loans[i].ID == id {
			m.loans = append(m.loans[:i], m.loans[i+1:]...)
			return nil
		}
	}
	return model.NewLoanNotFoundError()
}

// compile-time interface check
var _ CatalogClient = (*mockCatalogClient)(nil)

func TestMutatorCreateRefreshesFromStore(t *testing.T) {
	client := newMockCatalogClient(model.Loan{ID: 1, Name: "Займ 1", IsActive: true})
	m := NewMutator(client)

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if err := m.Create(context.Background(), model.LoanFields{Name: "Новый", IsActive: true}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(m.Loans()) != 2 {
		t.Errorf("len(Loans()) = %d, want 2", len(m.Loans()))
	}
	// список перечитан из хранилища, а не дополнен локально
	if client.listCalls != 2 {
		t.Errorf("listCalls = %d, want 2", client.listCalls)
	}
}

func TestMutatorCreateTransportFailureKeepsState(t *testing.T) {
	client := newMockCatalogClient(model.Loan{ID: 1, Name: "Займ 1", IsActive: true})
	m := NewMutator(client)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	client.createErr = model.NewTransportError("connection refused")

	if err := m.Create(context.Background(), model.LoanFields{Name: "Новый"}); err == nil {
		t.Fatal("Create() error = nil, want error")
	}
	if len(m.Loans()) != 1 {
		t.Errorf("len(Loans()) = %d, want 1: список не меняется при ошибке", len(m.Loans()))
	}
}

func TestMutatorUpdate(t *testing.T) {
	client := newMockCatalogClient(model.Loan{ID: 1, Name: "Старое имя", IsActive: true})
	m := NewMutator(client)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if err := m.Update(context.Background(), 1, model.LoanFields{Name: "Новое имя", IsActive: true}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if m.Loans()[0].Name != "Новое имя" {
		t.Errorf("Name = %q, want %q", m.Loans()[0].Name, "Новое имя")
	}
}

func TestMutatorDeleteConfirmed(t *testing.T) {
	client := newMockCatalogClient(
		model.Loan{ID: 1, Name: "Займ 1", IsActive: true},
		model.Loan{ID: 2, Name: "Займ 2", IsActive: true},
	)
	m := NewMutator(client)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	var confirmedName string
	err := m.Delete(context.Background(), 1, func(l model.Loan) bool {
		confirmedName = l.Name
		return true
	})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if confirmedName != "Займ 1" {
		t.Errorf("confirm получил %q, want %q", confirmedName, "Займ 1")
	}
	if client.deleteCalls != 1 {
		t.Errorf("deleteCalls = %d, want 1", client.deleteCalls)
	}
	if len(m.Loans()) != 1 || m.Loans()[0].ID != 2 {
		t.Errorf("Loans() = %+v, want только займ 2", m.Loans())
	}
}

func TestMutatorDeleteCancelled(t *testing.T) {
	client := newMockCatalogClient(model.Loan{ID: 1, Name: "Займ 1", IsActive: true})
	m := NewMutator(client)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	err := m.Delete(context.Background(), 1, func(model.Loan) bool { return false })
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if client.deleteCalls != 0 {
		t.Errorf("deleteCalls = %d, want 0: отказ не порождает сетевых вызовов", client.deleteCalls)
	}
	if len(m.Loans()) != 1 {
		t.Errorf("len(Loans()) = %d, want 1", len(m.Loans()))
	}
}

func TestMutatorDeleteUnknownID(t *testing.T) {
	client := newMockCatalogClient(model.Loan{ID: 1, IsActive: true})
	m := NewMutator(client)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	err := m.Delete(context.Background(), 99, func(model.Loan) bool { return true })
	if err == nil {
		t.Fatal("Delete() error = nil, want error")
	}
	if client.deleteCalls != 0 {
		t.Errorf("deleteCalls = %d, want 0", client.deleteCalls)
	}
}

func TestMutatorDeleteTransportFailureKeepsState(t *testing.T) {
	client := newMockCatalogClient(model.Loan{ID: 1, Name: "Займ 1", IsActive: true})
	m := NewMutator(client)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	client.deleteErr = model.NewTransportError("connection refused")

	if err := m.Delete(context.Background(), 1, func(model.Loan) bool { return true }); err == nil {
		t.Fatal("Delete() error = nil, want error")
	}
	if len(m.Loans()) != 1 {
		t.Errorf("len(Loans()) = %d, want 1: список не меняется при ошибке", len(m.Loans()))
	}
}

func TestMutatorSummarize(t *testing.T) {
	client := newMockCatalogClient(
		model.Loan{ID: 1, IsActive: true, Clicks: 100, Conversions: 40},
		model.Loan{ID: 2, IsActive: false, Clicks: 50, Conversions: 10},
		model.Loan{ID: 3, IsActive: true, Clicks: 25, Conversions: 5},
	)
	m := NewMutator(client)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	s := m.Summarize()
	if s.Total != 3 {
		t.Errorf("Total = %d, want 3", s.Total)
	}
	if s.Active != 2 {
		t.Errorf("Active = %d, want 2", s.Active)
	}
	if s.Clicks != 175 {
		t.Errorf("Clicks = %d, want 175", s.Clicks)
	}
	if s.Conversions != 55 {
		t.Errorf("Conversions = %d, want 55", s.Conversions)
	}
}
