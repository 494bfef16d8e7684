// Package logger настраивает структурированное JSON-логирование.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup создаёт slog.Logger с JSON-выводом в указанный writer.
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault устанавливает JSON-логгер как глобальный.
// При nil writer вывод идёт в os.Stdout (так запускается в проде).
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w)
	slog.SetDefault(logger)
}
