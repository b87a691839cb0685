// Package logging configures the process-wide logrus logger.
//
// The TUI owns stdout and stderr, so log output goes to a file or nowhere.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Options controls where and how verbosely the logger writes.
type Options struct {
	// File is the log file path. Empty discards all output.
	File string
	// Level is a logrus level name ("debug", "info", "warn", ...).
	// Empty means "info".
	Level string
}

// New builds a logger from opts. The returned closer releases the log
// file and is safe to call when no file was opened.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nopCloser{}, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}
	l.SetLevel(level)

	if opts.File == "" {
		l.SetOutput(io.Discard)
		return l, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nopCloser{}, fmt.Errorf("open log file: %w", err)
	}
	l.SetOutput(f)
	return l, f, nil
}

// DefaultFile resolves the log file path:
// 1. LUYENTHI_LOG_FILE environment variable
// 2. $XDG_STATE_HOME/luyenthi/luyenthi.log
// 3. ~/.local/state/luyenthi/luyenthi.log
func DefaultFile() string {
	if p := os.Getenv("LUYENTHI_LOG_FILE"); p != "" {
		return p
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "luyenthi", "luyenthi.log")
}

// LevelFromEnv returns LUYENTHI_LOG_LEVEL, or "" when unset.
func LevelFromEnv() string {
	return os.Getenv("LUYENTHI_LOG_LEVEL")
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithContext returns the logger carried by ctx, or the logrus standard
// logger when none was attached.
func WithContext(ctx context.Context) logrus.FieldLogger {
	return FromContext(ctx, nil)
}

// FromContext returns the logger carried by ctx, or fallback when none was
// attached. A nil fallback means the logrus standard logger.
func FromContext(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if l, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return logrus.StandardLogger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
