package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/zaimy/loanhub/internal/metrics"
	"github.com/zaimy/loanhub/internal/middleware"
	"github.com/zaimy/loanhub/internal/model"
)

// LoanServiceInterface — сервисный интерфейс обработчика займов.
type LoanServiceInterface interface {
	// ListLoans возвращает займы в порядке rating DESC, clicks DESC.
	ListLoans(ctx context.Context, activeOnly bool) ([]model.Loan, error)
	// GetLoan возвращает займ или ошибку LOAN_NOT_FOUND.
	GetLoan(ctx context.Context, id int64) (*model.Loan, error)
	// CreateLoan валидирует и создаёт займ.
	CreateLoan(ctx context.Context, fields model.LoanFields) (*model.Loan, error)
	// UpdateLoan валидирует и полностью обновляет займ.
	UpdateLoan(ctx context.Context, id int64, fields model.LoanFields) (*model.Loan, error)
	// DeleteLoan удаляет займ.
	DeleteLoan(ctx context.Context, id int64) error
	// TrackClick фиксирует клик по займу.
	TrackClick(ctx context.Context, id int64) error
	// TrackConversion фиксирует конверсию по займу.
	TrackConversion(ctx context.Context, id int64) error
}

// LoanHandler — HTTP-обработчик каталога займов.
type LoanHandler struct {
	service   LoanServiceInterface
	collector metrics.MetricsCollector
}

// NewLoanHandler создаёт LoanHandler.
func NewLoanHandler(service LoanServiceInterface, collector metrics.MetricsCollector) *LoanHandler {
	return &LoanHandler{
		service:   service,
		collector: collector,
	}
}

// ListOrGet обрабатывает получение каталога или одного займа.
// GET /api/loans — список; ?id=N — одна запись; ?active=false — включая скрытые.
func (h *LoanHandler) ListOrGet(w http.ResponseWriter, r *http.Request) {
	if rawID := r.URL.Query().Get("id"); rawID != "" {
		id, ok := parseID(w, rawID)
		if !ok {
			return
		}

		l, err := h.service.GetLoan(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toLoanResponse(l))
		return
	}

	activeOnly := r.URL.Query().Get("active") != "false"

	loans, err := h.service.ListLoans(r.Context(), activeOnly)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]loanResponse, 0, len(loans))
	for i := range loans {
		out = append(out, toLoanResponse(&loans[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create создаёт займ.
// POST /api/loans (только администратор)
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	created, err := h.service.CreateLoan(r.Context(), fieldsFromRequest(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLoanResponse(created))
}

// Update полностью обновляет займ.
// PUT /api/loans?id=N (только администратор)
func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r.URL.Query().Get("id"))
	if !ok {
		return
	}

	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	updated, err := h.service.UpdateLoan(r.Context(), id, fieldsFromRequest(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toLoanResponse(updated))
}

// Delete удаляет займ.
// DELETE /api/loans?id=N (только администратор)
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r.URL.Query().Get("id"))
	if !ok {
		return
	}

	if err := h.service.DeleteLoan(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Займ удалён",
		"id":      id,
	})
}

// TrackClick фиксирует клик по кнопке «Получить займ».
// POST /api/loans/{id}/click
func (h *LoanHandler) TrackClick(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.TrackClick(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordClickTracked()
	w.WriteHeader(http.StatusNoContent)
}

// TrackConversion фиксирует конверсию по займу.
// POST /api/loans/{id}/conversion
func (h *LoanHandler) TrackConversion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.TrackConversion(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordConversionTracked()
	w.WriteHeader(http.StatusNoContent)
}

// parseID разбирает идентификатор из строки.
// При ошибке записывает ответ 400 и возвращает false.
func parseID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("некорректный идентификатор займа"))
		return 0, false
	}
	return id, true
}
