// Package security предоставляет функции безопасности приложения.
//
// ContentSanitizerService очищает пользовательский текст отзывов от HTML,
// защищая посетителей от XSS при публикации после модерации.
package security

import "github.com/microcosm-cc/bluemonday"

// ContentSanitizerService — интерфейс очистки пользовательского текста.
// Применяется к имени автора и тексту отзыва перед сохранением.
type ContentSanitizerService interface {
	// Sanitize удаляет из текста все HTML-теги и возвращает чистый текст.
	// Пустая строка на входе даёт пустую строку на выходе.
	// Для одинакового входа результат всегда одинаков (идемпотентность).
	Sanitize(raw string) string
}

// textSanitizer — реализация ContentSanitizerService.
// Использует строгую политику bluemonday: никакие теги не пропускаются.
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer создаёт ContentSanitizerService со строгой политикой.
// Отзывы — простой текст, поэтому разрешённых тегов нет: вся разметка удаляется.
func NewContentSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize удаляет HTML-теги из текста.
func (s *textSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}

// compile-time interface check
var _ ContentSanitizerService = (*textSanitizer)(nil)
