package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/zaimy/loanhub/internal/model"
)

// ErrorResponseBody — формат тела ошибки API.
// Клиенты читают поле error как готовый текст для показа пользователю.
type ErrorResponseBody struct {
	Error string `json:"error"`
}

// WriteErrorResponse записывает ошибку в унифицированном формате.
// Код и категория ошибки остаются в логах, наружу уходит только сообщение.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{Error: apiErr.Message})
}

// WriteInternalServerError записывает ответ о внутренней ошибке.
// Детали сбоя остаются в логах, пользователь получает общее сообщение.
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}
