package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/zaimy/loanhub/internal/model"
)

// AdminTokenHeader — заголовок с токеном администратора.
const AdminTokenHeader = "X-Admin-Token"

// NewAdminTokenMiddleware возвращает мидлварь проверки токена администратора.
// Мутирующие операции каталога доступны только с действительным токеном.
// Сравнение токенов выполняется за постоянное время.
func NewAdminTokenMiddleware(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminTokenHeader)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				slog.Warn("admin token rejected",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
