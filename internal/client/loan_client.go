// Package client содержит HTTP-клиенты API каталога для потребительской части.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zaimy/loanhub/internal/model"
)

// loanRecord — запись займа на проводе.
type loanRecord struct {
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

// loanPayload — поля займа в теле запросов создания и обновления.
type loanPayload struct {
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

// LoanClient — клиент каталога займов.
// Повторов и собственных таймаутов нет: таймаут задаёт
// переданный http.Client, отмену — контекст вызова.
type LoanClient struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
}

// NewLoanClient создаёт LoanClient.
// adminToken может быть пустым: тогда доступны только операции чтения.
func NewLoanClient(baseURL, adminToken string, httpClient *http.Client) *LoanClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &LoanClient{
		baseURL:    baseURL,
		adminToken: adminToken,
		httpClient: httpClient,
	}
}

// List возвращает список займов.
// При activeOnly запрашиваются только активные предложения.
func (c *LoanClient) List(ctx context.Context, activeOnly bool) ([]model.Loan, error) {
	url := c.baseURL + "/api/loans"
	if !activeOnly {
		url += "?active=false"
	}

	var records []loanRecord
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &records); err != nil {
		return nil, err
	}

	loans := make([]model.Loan, 0, len(records))
	for _, rec := range records {
		loans = append(loans, recordToLoan(rec))
	}
	return loans, nil
}

// Get возвращает займ по идентификатору.
// Если займ не найден, возвращает (nil, nil).
func (c *LoanClient) Get(ctx context.Context, id int64) (*model.Loan, error) {
	url := fmt.Sprintf("%s/api/loans?id=%d", c.baseURL, id)

	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode)
	}

	var rec loanRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, model.NewTransportError("не удалось разобрать ответ")
	}

	l := recordToLoan(rec)
	return &l, nil
}

// Create создаёт займ. Требуется токен администратора.
func (c *LoanClient) Create(ctx context.Context, fields model.LoanFields) (*model.Loan, error) {
	var rec loanRecord
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/loans", fieldsToPayload(fields), &rec); err != nil {
		return nil, err
	}
	l := recordToLoan(rec)
	return &l, nil
}

// Update полностью обновляет займ. Требуется токен администратора.
func (c *LoanClient) Update(ctx context.Context, id int64, fields model.LoanFields) (*model.Loan, error) {
	url := fmt.Sprintf("%s/api/loans?id=%d", c.baseURL, id)

	var rec loanRecord
	if err := c.doJSON(ctx, http.MethodPut, url, fieldsToPayload(fields), &rec); err != nil {
		return nil, err
	}
	l := recordToLoan(rec)
	return &l, nil
}

// Delete удаляет займ. Требуется токен администратора.
func (c *LoanClient) Delete(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/api/loans?id=%d", c.baseURL, id)
	return c.doJSON(ctx, http.MethodDelete, url, nil, nil)
}

// TrackClick фиксирует клик по займу.
func (c *LoanClient) TrackClick(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/api/loans/%d/click", c.baseURL, id)
	return c.doJSON(ctx, http.MethodPost, url, nil, nil)
}

// TrackConversion фиксирует конверсию по займу.
func (c *LoanClient) TrackConversion(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/api/loans/%d/conversion", c.baseURL, id)
	return c.doJSON(ctx, http.MethodPost, url, nil, nil)
}

// do выполняет HTTP-запрос с заголовками клиента.
func (c *LoanClient) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, model.NewTransportError("не удалось сериализовать запрос")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, model.NewTransportError(err.Error())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminToken != "" {
		req.Header.Set("X-Admin-Token", c.adminToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewTransportError(err.Error())
	}
	return resp, nil
}

// doJSON выполняет запрос и разбирает успешный ответ в out (если out не nil).
func (c *LoanClient) doJSON(ctx context.Context, method, url string, body, out any) error {
	resp, err := c.do(ctx, method, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return model.NewTransportError("не удалось разобрать ответ")
	}
	return nil
}

// statusError преобразует не-2xx статус в транспортную ошибку.
func statusError(statusCode int) *model.APIError {
	return model.NewTransportError(fmt.Sprintf("сервер ответил статусом %d", statusCode))
}

// recordToLoan преобразует запись провода в model.Loan.
// Нечитаемые временные метки считаются нулевыми.
func recordToLoan(rec loanRecord) model.Loan {
	createdAt, _ := time.Parse(time.RFC3339, rec.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, rec.UpdatedAt)
	return model.Loan{
		ID:           rec.ID,
		Name:         rec.Name,
		Logo:         rec.Logo,
		AmountMin:    rec.AmountMin,
		AmountMax:    rec.AmountMax,
		TermMin:      rec.TermMin,
		TermMax:      rec.TermMax,
		Rate:         rec.Rate,
		ApprovalRate: rec.ApprovalRate,
		Rating:       rec.Rating,
		Reviews:      rec.Reviews,
		Features:     rec.Features,
		Requirements: rec.Requirements,
		Color:        rec.Color,
		Clicks:       rec.Clicks,
		Conversions:  rec.Conversions,
		IsActive:     rec.IsActive,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// fieldsToPayload преобразует поля займа в тело запроса.
func fieldsToPayload(f model.LoanFields) loanPayload {
	return loanPayload{
		Name:         f.Name,
		Logo:         f.Logo,
		AmountMin:    f.AmountMin,
		AmountMax:    f.AmountMax,
		TermMin:      f.TermMin,
		TermMax:      f.TermMax,
		Rate:         f.Rate,
		ApprovalRate: f.ApprovalRate,
		Rating:       f.Rating,
		Reviews:      f.Reviews,
		Features:     f.Features,
		Requirements: f.Requirements,
		Color:        f.Color,
		IsActive:     f.IsActive,
	}
}
