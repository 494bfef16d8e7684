package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zaimy/loanhub/internal/model"
)

// reviewRecord — запись отзыва на проводе.
type reviewRecord struct {
	ID         int64  `json:"id"`
	LoanID     int64  `json:"loan_id"`
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

// submitReviewPayload — тело запроса отправки отзыва.
type submitReviewPayload struct {
	LoanID     int64  `json:"loan_id"`
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// ReviewClient — клиент отзывов.
type ReviewClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewReviewClient создаёт ReviewClient.
func NewReviewClient(baseURL string, httpClient *http.Client) *ReviewClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ReviewClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// ListByLoan возвращает одобренные отзывы займа, новые первыми.
func (c *ReviewClient) ListByLoan(ctx context.Context, loanID int64) ([]model.Review, error) {
	url := fmt.Sprintf("%s/api/reviews?loan_id=%d", c.baseURL, loanID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, model.NewTransportError(err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewTransportError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode)
	}

	var records []reviewRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, model.NewTransportError("не удалось разобрать ответ")
	}

	reviews := make([]model.Review, 0, len(records))
	for _, rec := range records {
		reviews = append(reviews, recordToReview(rec))
	}
	return reviews, nil
}

// Submit отправляет отзыв на модерацию.
// Возвращённый отзыв создан неодобренным и в публичном списке не появится.
func (c *ReviewClient) Submit(ctx context.Context, review model.NewReview) (*model.Review, error) {
	buf, err := json.Marshal(submitReviewPayload{
		LoanID:     review.LoanID,
		AuthorName: review.AuthorName,
		Rating:     review.Rating,
		Comment:    review.Comment,
	})
	if err != nil {
		return nil, model.NewTransportError("не удалось сериализовать запрос")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/reviews", bytes.NewReader(buf))
	if err != nil {
		return nil, model.NewTransportError(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewTransportError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp.StatusCode)
	}

	var body struct {
		Message string       `json:"message"`
		Review  reviewRecord `json:"review"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, model.NewTransportError("не удалось разобрать ответ")
	}

	created := recordToReview(body.Review)
	created.IsApproved = false // только что отправленный отзыв ждёт модерации
	return &created, nil
}

// recordToReview преобразует запись провода в model.Review.
func recordToReview(rec reviewRecord) model.Review {
	createdAt, _ := time.Parse(time.RFC3339, rec.CreatedAt)
	return model.Review{
		ID:         rec.ID,
		LoanID:     rec.LoanID,
		AuthorName: rec.AuthorName,
		Rating:     rec.Rating,
		Comment:    rec.Comment,
		IsApproved: true, // в публичной выдаче только одобренные
		CreatedAt:  createdAt,
	}
}
