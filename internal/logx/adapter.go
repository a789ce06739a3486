package logx

import (
	"io"
	"log/slog"
)

// SlogAdapter adapts *slog.Logger to Logger.
type SlogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter returns a Logger backed by l.
func NewSlogAdapter(l *slog.Logger) Logger {
	return &SlogAdapter{l: l}
}

// NewJSON builds a JSON slog logger writing to w at the given level.
func NewJSON(w io.Writer, level slog.Level) Logger {
	return NewSlogAdapter(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level; anything else is info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (s *SlogAdapter) Debug(msg string, fields ...Field) { s.l.Debug(msg, toSlogArgs(fields)...) }
func (s *SlogAdapter) Info(msg string, fields ...Field)  { s.l.Info(msg, toSlogArgs(fields)...) }
func (s *SlogAdapter) Warn(msg string, fields ...Field)  { s.l.Warn(msg, toSlogArgs(fields)...) }
func (s *SlogAdapter) Error(msg string, fields ...Field) { s.l.Error(msg, toSlogArgs(fields)...) }

// With returns a logger that attaches fields to every entry.
func (s *SlogAdapter) With(fields ...Field) Logger {
	return &SlogAdapter{l: s.l.With(toSlogArgs(fields)...)}
}

// Sync is a no-op: slog handlers write synchronously.
func (s *SlogAdapter) Sync() error { return nil }

func toSlogArgs(fields []Field) []any {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, slog.Any(f.Key, f.Value))
	}
	return args
}
