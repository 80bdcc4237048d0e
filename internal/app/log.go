package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// tabHandler is a slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<opID>\t<message>\t<key=value ...>
type tabHandler struct {
	w     io.Writer
	opID  string
	level slog.Leveler
	attrs []slog.Attr
}

func (h *tabHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return true
	}
	return level >= h.level.Level()
}

func (h *tabHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%s\t%s\t%s", r.Time.UTC().Format("2006-01-02T15:04:05Z"), r.Level, h.opID, r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')

	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *tabHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &tabHandler{
		w:     h.w,
		opID:  h.opID,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *tabHandler) WithGroup(string) slog.Handler { return h }

// parseLevel maps the configured log level to slog. Empty means info.
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

// newLogger creates a structured logger that writes to logDir/gitlite.log and console.
// It returns the slog.Logger, the open log file (for cleanup), and any error.
func newLogger(logDir, opID string, level slog.Level, console io.Writer) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "gitlite.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	w := io.Writer(f)
	if console != nil {
		w = io.MultiWriter(f, console)
	}
	return slog.New(&tabHandler{w: w, opID: opID, level: level}), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy vcs.Logger.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
