package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lumenvr/bridge-core/internal/infrastructure/config"
)

// serviceName is stamped on every log line.
const serviceName = "lumenbridge"

// Logger wraps slog.Logger. All slog methods are promoted, so callers
// log with the usual Info/Warn/Error/Debug plus key-value args.
//
// Thread Safety:
//   - Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from config, writing to stdout or stderr per
// cfg.Output.
func New(cfg config.LoggingConfig, version string) *Logger {
	var out io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		out = os.Stderr
	}
	return NewWithOutput(cfg, version, out)
}

// NewWithOutput builds a Logger writing to an explicit destination.
// Tests use this to capture output in a buffer.
func NewWithOutput(cfg config.LoggingConfig, version string, out io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: Level(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// Level maps a config level string to slog's levels. Unknown strings
// fall back to info rather than failing startup.
func Level(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child Logger carrying extra default attributes.
// Components get their own tag this way:
//
//	apiLog := log.With("component", "api")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default is the bootstrap logger used before config is loaded: JSON to
// stdout at info level.
func Default() *Logger {
	return New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "dev")
}
