package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the scheduler's default logger.
type Options struct {
	// Component names the scheduler instance in every log line, useful
	// when a process runs more than one Scheduler.
	Component string
}

// New builds the slog/zerolog logger pair the scheduler façade and
// dispatch engine log through. Level is read from EZTIMER_LOG_LEVEL so a
// host program can turn up dispatch diagnostics without a code change.
func New(opts Options) (*slog.Logger, zerolog.Logger) {
	level := parseLevel(strings.TrimSpace(os.Getenv("EZTIMER_LOG_LEVEL")))
	zerolog.SetGlobalLevel(toZerologLevel(level))

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	zl := zerolog.New(output).
		Level(toZerologLevel(level)).
		With().
		Timestamp().
		Str("component", strings.TrimSpace(opts.Component)).
		Logger()

	sl := slog.New(NewZerologHandler(zl, level))
	return sl, zl
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}

func toZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level <= slog.LevelDebug:
		return zerolog.DebugLevel
	case level <= slog.LevelInfo:
		return zerolog.InfoLevel
	case level <= slog.LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

