package handler

import (
	"context"
	"net/http"
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler — HTTP-обработчик проверки работоспособности.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler создаёт HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check проверяет доступность сервиса и базы данных.
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
