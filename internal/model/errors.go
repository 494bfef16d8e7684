// Package model определяет доменные модели.
package model

import "fmt"

// APIError представляет унифицированный формат ошибки.
// Содержит категорию причины и действие для пользователя.
type APIError struct {
	Code     string // код ошибки
	Message  string // сообщение об ошибке
	Category string // категория: validation, catalog, transport, auth, system
	Action   string // рекомендуемое действие для пользователя
}

// Error реализует интерфейс error.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Определённые коды ошибок
const (
	ErrCodeLoanNotFound     = "LOAN_NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeTransportFailed  = "TRANSPORT_FAILED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// NewLoanNotFoundError создаёт ошибку «займ не найден».
// Текст сообщения попадает в тело ответа как есть.
func NewLoanNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeLoanNotFound,
		Message:  "Займ не найден",
		Category: "catalog",
		Action:   "Проверьте идентификатор займа или вернитесь к списку предложений.",
	}
}

// NewValidationError создаёт ошибку валидации пользовательского ввода.
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("Некорректные данные: %s", reason),
		Category: "validation",
		Action:   "Исправьте указанные поля и повторите попытку.",
	}
}

// NewInvalidRequestError создаёт ошибку разбора тела запроса.
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "Не удалось разобрать тело запроса.",
		Category: "validation",
		Action:   "Отправьте запрос в корректном формате JSON.",
	}
}

// NewUnauthorizedError создаёт ошибку отсутствия прав администратора.
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Операция доступна только администратору.",
		Category: "auth",
		Action:   "Укажите действительный токен администратора в заголовке X-Admin-Token.",
	}
}

// NewTransportError создаёт ошибку обращения к удалённому хранилищу.
// Операция прерывается, локальное состояние остаётся без изменений.
func NewTransportError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeTransportFailed,
		Message:  fmt.Sprintf("Не удалось обратиться к хранилищу: %s", reason),
		Category: "transport",
		Action:   "Проверьте соединение и повторите действие.",
	}
}

// NewInternalError создаёт ошибку внутреннего сбоя.
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Произошла внутренняя ошибка.",
		Category: "system",
		Action:   "Подождите немного и повторите попытку.",
	}
}
