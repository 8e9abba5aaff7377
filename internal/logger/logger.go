package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/llama-swappo/swappo/internal/constants"
	contextutils "github.com/llama-swappo/swappo/internal/utils/context"
)

var (
	Fallback = New(context.Background(), "fallback", WARN, nil)
)

type Logger struct {
	name   string
	ctx    context.Context
	level  LogLevel
	exitCh chan string
	zl     *zap.Logger
}

// New returns a logger writing human readable lines to stderr.
func New(ctx context.Context, name string, level LogLevel, exitCh chan string) *Logger {
	return NewWithOutput(ctx, name, level, exitCh, os.Stderr)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(ctx context.Context, name string, level LogLevel, exitCh chan string, w io.Writer) *Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(level.zapLevel()),
	)
	return &Logger{
		name:   name,
		ctx:    ctx,
		level:  level,
		exitCh: exitCh,
		zl:     zap.New(core).Named(name),
	}
}

func (l *Logger) out(ctx context.Context, s string, level LogLevel) {
	zl := l.zl
	if reqId := contextutils.GetRequestID(ctx); reqId != "" {
		zl = zl.With(zap.String("request_id", reqId))
	}
	switch level {
	case TRACE, DEBUG:
		zl.Debug(s)
	case INFO:
		zl.Info(s)
	case WARN:
		zl.Warn(s)
	default:
		zl.Error(s)
	}
}

// Clone returns a child logger with the given name, together with a copy of the
// logger's context that carries the child.
func (l *Logger) Clone(name string) (*Logger, context.Context) {
	lgr := &Logger{
		name:   name,
		ctx:    l.ctx,
		level:  l.level,
		exitCh: l.exitCh,
		zl:     l.zl.Named(name),
	}
	ctx := context.WithValue(l.ctx, constants.LoggerKey, lgr)
	return lgr, ctx
}

func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.level = level
	return l
}

func (l *Logger) Level() LogLevel {
	return l.level
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

func (l *Logger) Trace(ctx context.Context, s string) {
	if l.level > TRACE {
		return
	}
	l.out(ctx, s, TRACE)
}

func (l *Logger) Tracef(ctx context.Context, s string, args ...any) {
	l.Trace(ctx, fmt.Sprintf(s, args...))
}

func (l *Logger) Debug(ctx context.Context, s string) {
	if l.level > DEBUG {
		return
	}
	l.out(ctx, s, DEBUG)
}

func (l *Logger) Debugf(ctx context.Context, s string, args ...any) {
	l.Debug(ctx, fmt.Sprintf(s, args...))

}

func (l *Logger) Info(ctx context.Context, s string) {
	if l.level > INFO {
		return
	}
	l.out(ctx, s, INFO)
}

func (l *Logger) Infof(ctx context.Context, s string, args ...any) {
	l.Info(ctx, fmt.Sprintf(s, args...))
}

func (l *Logger) Warn(ctx context.Context, s string) {
	if l.level > WARN {
		return
	}
	l.out(ctx, s, WARN)
}

func (l *Logger) Warnf(ctx context.Context, s string, args ...any) {
	l.Warn(ctx, fmt.Sprintf(s, args...))
}

func (l *Logger) Error(ctx context.Context, s string) {
	if l.level > ERROR {
		return
	}
	l.out(ctx, s, ERROR)
}

func (l *Logger) Errorf(ctx context.Context, s string, args ...any) {
	l.Error(ctx, fmt.Sprintf(s, args...))
}

// Fatal logs s and hands it to the owner of the exit channel, which decides how
// the process ends.
func (l *Logger) Fatal(ctx context.Context, s string) {
	if l.level > FATAL {
		return
	}
	l.out(ctx, s, FATAL)
	if l.exitCh == nil {
		return
	}
	select {
	case l.exitCh <- s:
	default:
	}
}

func (l *Logger) Fatalf(ctx context.Context, s string, args ...any) {
	l.Fatal(ctx, fmt.Sprintf(s, args...))
}
