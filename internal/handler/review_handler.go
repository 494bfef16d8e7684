package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zaimy/loanhub/internal/metrics"
	"github.com/zaimy/loanhub/internal/middleware"
	"github.com/zaimy/loanhub/internal/model"
)

// ReviewServiceInterface — сервисный интерфейс обработчика отзывов.
type ReviewServiceInterface interface {
	// ListReviews возвращает одобренные отзывы займа, новые первыми.
	ListReviews(ctx context.Context, loanID int64) ([]model.Review, error)
	// SubmitReview валидирует и сохраняет отзыв в состоянии «на модерации».
	SubmitReview(ctx context.Context, review model.NewReview) (*model.Review, error)
}

// ReviewHandler — HTTP-обработчик отзывов.
type ReviewHandler struct {
	service   ReviewServiceInterface
	collector metrics.MetricsCollector
}

// NewReviewHandler создаёт ReviewHandler.
func NewReviewHandler(service ReviewServiceInterface, collector metrics.MetricsCollector) *ReviewHandler {
	return &ReviewHandler{
		service:   service,
		collector: collector,
	}
}

// submitReviewRequest — тело запроса отправки отзыва.
type submitReviewRequest struct {
	LoanID     int64  `json:"loan_id"`
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// List возвращает одобренные отзывы займа.
// GET /api/reviews?loan_id=N
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	loanID, ok := parseID(w, r.URL.Query().Get("loan_id"))
	if !ok {
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), loanID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResponse(&reviews[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Submit принимает новый отзыв.
// POST /api/reviews
// Отзыв сохраняется неодобренным и не появляется в списке до модерации.
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	created, err := h.service.SubmitReview(r.Context(), model.NewReview{
		LoanID:     req.LoanID,
		AuthorName: req.AuthorName,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordReviewSubmitted()
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Отзыв отправлен на модерацию",
		"review":  toReviewResponse(created),
	})
}
