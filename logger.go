package esindex

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logger interface for debug/trace logging.
// If logger is not provided (nil), all logging is disabled (no-op).
// fields are alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...any)
	DebugWithCtx(ctx context.Context, msg string, fields ...any)
}

// noopLogger is a no-op implementation used when logger is not provided.
type noopLogger struct{}

func (noopLogger) Debug(msg string, fields ...any)                             {}
func (noopLogger) DebugWithCtx(ctx context.Context, msg string, fields ...any) {}

// safeLogger returns the provided logger or no-op logger if nil.
func safeLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger adapts a logrus logger. A nil logger uses logrus' standard logger.
func NewLogrusLogger(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &logrusLogger{entry: logrus.NewEntry(l).WithField("component", "esindex")}
}

func (l *logrusLogger) Debug(msg string, fields ...any) {
	l.entry.WithFields(toFields(fields)).Debug(msg)
}

func (l *logrusLogger) DebugWithCtx(ctx context.Context, msg string, fields ...any) {
	l.entry.WithContext(ctx).WithFields(toFields(fields)).Debug(msg)
}

func toFields(kv []any) logrus.Fields {
	fields := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	if len(kv)%2 == 1 {
		fields["extra"] = kv[len(kv)-1]
	}
	return fields
}
