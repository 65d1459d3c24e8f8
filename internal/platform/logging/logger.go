// Package logging wraps zap behind key/value call sites and adds trace and
// span ids to entries logged with a context.
package logging

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

const badKey = "!BADKEY"

// Logger is safe for concurrent use. A nil *Logger writes through Default.
type Logger struct {
	z *zap.Logger
	// synced is shared with every logger derived through With or Named.
	synced *atomic.Bool
}

var fallback atomic.Pointer[Logger]

func init() {
	fallback.Store(NewNop())
}

// New writes JSON lines at level and above to w, or to stderr when w is nil.
// Stdout belongs to command output and MCP frames.
func New(level Level, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(zapcore.AddSync(w)), level)
	// Skip Logger.<Level> and emit so the caller field points at the call site.
	return wrap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel)))
}

func NewNop() *Logger {
	return wrap(zap.NewNop())
}

func wrap(z *zap.Logger) *Logger {
	return &Logger{z: z, synced: new(atomic.Bool)}
}

func Default() *Logger {
	return fallback.Load()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	fallback.Store(logger)
}

func (l *Logger) resolve() *Logger {
	if l == nil {
		return Default()
	}
	return l
}

// Sync flushes buffered entries once per logger family.
func (l *Logger) Sync() error {
	l = l.resolve()
	if !l.synced.CompareAndSwap(false, true) {
		return nil
	}
	return l.z.Sync()
}

func (l *Logger) With(kv ...any) *Logger {
	l = l.resolve()
	return &Logger{z: l.z.With(fields(kv)...), synced: l.synced}
}

// Named appends name to the logger field, dot separated.
func (l *Logger) Named(name string) *Logger {
	l = l.resolve()
	return &Logger{z: l.z.Named(name), synced: l.synced}
}

func (l *Logger) Debug(msg string, kv ...any) {
	l.emit(context.Background(), LevelDebug, msg, kv)
}

func (l *Logger) Info(msg string, kv ...any) {
	l.emit(context.Background(), LevelInfo, msg, kv)
}

func (l *Logger) Warn(msg string, kv ...any) {
	l.emit(context.Background(), LevelWarn, msg, kv)
}

func (l *Logger) Error(msg string, kv ...any) {
	l.emit(context.Background(), LevelError, msg, kv)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelDebug, msg, kv)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelInfo, msg, kv)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelWarn, msg, kv)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, LevelError, msg, kv)
}

func (l *Logger) emit(ctx context.Context, level Level, msg string, kv []any) {
	ce := l.resolve().z.Check(level, msg)
	if ce == nil {
		return
	}
	out := fields(kv)
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			out = append(out,
				zap.String("trace_id", sc.TraceID().String()),
				zap.String("span_id", sc.SpanID().String()),
			)
		}
	}
	ce.Write(out...)
}

// fields turns alternating keys and values into zap fields. A non-string key
// or a trailing value is kept under badKey.
func fields(kv []any) []zap.Field {
	out := make([]zap.Field, 0, len(kv)/2+2)
	for len(kv) > 0 {
		key, ok := kv[0].(string)
		if !ok || len(kv) == 1 {
			out = append(out, zap.Any(badKey, kv[0]))
			kv = kv[1:]
			continue
		}
		if err, isErr := kv[1].(error); isErr {
			out = append(out, zap.NamedError(key, err))
		} else {
			out = append(out, zap.Any(key, kv[1]))
		}
		kv = kv[2:]
	}
	return out
}
