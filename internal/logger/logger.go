package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text logger at debug level for local development and a JSON
// logger at info level otherwise.
func New(mode string) *slog.Logger {
	return newWithWriter(os.Stdout, mode)
}

func newWithWriter(w io.Writer, mode string) *slog.Logger {
	if mode == "release" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Discard is used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
