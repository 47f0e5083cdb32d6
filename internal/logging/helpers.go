package logging

import (
	"context"
	"log/slog"
)

// The helpers tolerate a nil logger so components can be constructed bare
// in tests without threading a discard logger through every call site.

// Debug logs at debug level, for per-event tracing.
func Debug(logger *slog.Logger, msg string, args ...any) {
	log(logger, slog.LevelDebug, msg, args...)
}

// Info logs at info level.
func Info(logger *slog.Logger, msg string, args ...any) {
	log(logger, slog.LevelInfo, msg, args...)
}

// Warn logs at warn level.
func Warn(logger *slog.Logger, msg string, args ...any) {
	log(logger, slog.LevelWarn, msg, args...)
}

// Error logs at error level, appending the error attribute when err is
// non-nil.
func Error(logger *slog.Logger, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	log(logger, slog.LevelError, msg, args...)
}

func log(logger *slog.Logger, level slog.Level, msg string, args ...any) {
	if logger == nil {
		return
	}
	logger.Log(context.Background(), level, msg, args...)
}
