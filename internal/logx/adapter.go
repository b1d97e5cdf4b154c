package logx

import "log/slog"

// slogAdapter backs the Logger interface with a slog.Logger.
type slogAdapter struct {
	base *slog.Logger
}

// NewSlogAdapter wraps an slog.Logger in the Logger interface.
func NewSlogAdapter(l *slog.Logger) Logger {
	return &slogAdapter{base: l}
}

func (a *slogAdapter) Debug(msg string, fields ...Field) { a.base.Debug(msg, slogArgs(fields)...) }
func (a *slogAdapter) Info(msg string, fields ...Field)  { a.base.Info(msg, slogArgs(fields)...) }
func (a *slogAdapter) Warn(msg string, fields ...Field)  { a.base.Warn(msg, slogArgs(fields)...) }
func (a *slogAdapter) Error(msg string, fields ...Field) { a.base.Error(msg, slogArgs(fields)...) }

// With attaches fields to every entry of the returned logger.
func (a *slogAdapter) With(fields ...Field) Logger {
	return &slogAdapter{base: a.base.With(slogArgs(fields)...)}
}

// Sync is a no-op: slog handlers write through.
func (a *slogAdapter) Sync() error { return nil }

func slogArgs(fields []Field) []any {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, slog.Any(f.Key, f.Value))
	}
	return args
}
