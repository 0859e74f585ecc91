package utils

import (
	"log/slog"
	"os"
)

// NewLogger returns a text logger on stderr. Verbose lowers the level to
// Debug, which surfaces the characters the compiler skips.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
