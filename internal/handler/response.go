// Package handler содержит HTTP-обработчики API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/zaimy/loanhub/internal/middleware"
	"github.com/zaimy/loanhub/internal/model"
)

// loanResponse — запись займа в формате API.
type loanResponse struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Logo         string   `json:"logo"`
	AmountMin    int64    `json:"amount_min"`
	AmountMax    int64    `json:"amount_max"`
	TermMin      int      `json:"term_min"`
	TermMax      int      `json:"term_max"`
	Rate         float64  `json:"rate"`
	ApprovalRate int      `json:"approval_rate"`
	Rating       float64  `json:"rating"`
	Reviews      int      `json:"reviews"`
	Features     []string `json:"features"`
	Requirements []string `json:"requirements"`
	Color        string   `json:"color"`
	Clicks       int64    `json:"clicks"`
	Conversions  int64    `json:"conversions"`
	IsActive     bool     `json:"is_active"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// loanRequest — поля займа в теле запросов создания и обновления.
type loanRequest struct {
	Name         string   `json:"name"`
	Logo         string   `json:"logo"`
	AmountMin    int64    `json:"amount_min"`
	AmountMax    int64    `json:"amount_max"`
	TermMin      int      `json:"term_min"`
	TermMax      int      `json:"term_max"`
	Rate         float64  `json:"rate"`
	ApprovalRate int      `json:"approval_rate"`
	Rating       float64  `json:"rating"`
	Reviews      int      `json:"reviews"`
	Features     []string `json:"features"`
	Requirements []string `json:"requirements"`
	Color        string   `json:"color"`
	IsActive     bool     `json:"is_active"`
}

// reviewResponse — запись отзыва в формате API.
type reviewResponse struct {
	ID         int64  `json:"id"`
	LoanID     int64  `json:"loan_id"`
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

// toLoanResponse преобразует model.Loan в запись API.
func toLoanResponse(l *model.Loan) loanResponse {
	return loanResponse{
		ID:           l.ID,
		Name:         l.Name,
		Logo:         l.Logo,
		AmountMin:    l.AmountMin,
		AmountMax:    l.AmountMax,
		TermMin:      l.TermMin,
		TermMax:      l.TermMax,
		Rate:         l.Rate,
		ApprovalRate: l.ApprovalRate,
		Rating:       l.Rating,
		Reviews:      l.Reviews,
		Features:     emptyIfNil(l.Features),
		Requirements: emptyIfNil(l.Requirements),
		Color:        l.Color,
		Clicks:       l.Clicks,
		Conversions:  l.Conversions,
		IsActive:     l.IsActive,
		CreatedAt:    l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// fieldsFromRequest преобразует тело запроса в поля займа.
func fieldsFromRequest(req loanRequest) model.LoanFields {
	return model.LoanFields{
		Name:         req.Name,
		Logo:         req.Logo,
		AmountMin:    req.AmountMin,
		AmountMax:    req.AmountMax,
		TermMin:      req.TermMin,
		TermMax:      req.TermMax,
		Rate:         req.Rate,
		ApprovalRate: req.ApprovalRate,
		Rating:       req.Rating,
		Reviews:      req.Reviews,
		Features:     req.Features,
		Requirements: req.Requirements,
		Color:        req.Color,
		IsActive:     req.IsActive,
	}
}

// toReviewResponse преобразует model.Review в запись API.
func toReviewResponse(r *model.Review) reviewResponse {
	return reviewResponse{
		ID:         r.ID,
		LoanID:     r.LoanID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// emptyIfNil заменяет nil-срез пустым, чтобы в JSON уходил [], а не null.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// writeJSON записывает тело ответа в формате JSON.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// handleServiceError преобразует ошибку сервисного слоя в HTTP-ответ.
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// всё, что не APIError, считается внутренней ошибкой
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus сопоставляет код APIError со статусом HTTP.
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeLoanNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationFailed, model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeTransportFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
