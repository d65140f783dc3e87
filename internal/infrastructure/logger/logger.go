package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

var levelColors = []struct{ plain, colored string }{
	{"level=DEBUG", colorCyan + "level=DEBUG" + colorReset},
	{"level=INFO", colorGreen + "level=INFO" + colorReset},
	{"level=WARN", colorYellow + "level=WARN" + colorReset},
	{"level=ERROR", colorRed + "level=ERROR" + colorReset},
}

// coloredHandler is a text handler that colors the level when writing to a
// terminal.
type coloredHandler struct {
	handler slog.Handler
}

func newColoredHandler(w io.Writer, opts *slog.HandlerOptions) *coloredHandler {
	return &coloredHandler{
		handler: slog.NewTextHandler(&colorWriter{writer: w, enabled: isTerminal(w)}, opts),
	}
}

func (h *coloredHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *coloredHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.handler.Handle(ctx, record)
}

func (h *coloredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &coloredHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *coloredHandler) WithGroup(name string) slog.Handler {
	return &coloredHandler{handler: h.handler.WithGroup(name)}
}

type colorWriter struct {
	writer  io.Writer
	enabled bool
}

func (cw *colorWriter) Write(p []byte) (int, error) {
	if !cw.enabled {
		return cw.writer.Write(p)
	}

	text := string(p)
	for _, lc := range levelColors {
		text = strings.Replace(text, lc.plain, lc.colored, 1)
	}

	_, err := cw.writer.Write([]byte(text))
	return len(p), err
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// New builds a logger writing to stderr, keeping stdout free for command
// output.
func New(appName, level, environment string) *slog.Logger {
	return NewWithWriter(os.Stderr, appName, level, environment)
}

// NewWithWriter builds a structured logger honoring the configured level and
// environment. Development environments (local, dev, development) get
// colored text output; everything else gets JSON.
func NewWithWriter(w io.Writer, appName, level, environment string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "local", "dev", "development":
		handler = newColoredHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("app", appName)
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
