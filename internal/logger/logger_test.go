package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contextutils "github.com/llama-swappo/swappo/internal/utils/context"
)

func TestLevelFromString(t *testing.T) {
	cases := map[string]LogLevel{
		"trace":   TRACE,
		"DEBUG":   DEBUG,
		"info":    INFO,
		"warning": WARN,
		"error":   ERROR,
		"panic":   FATAL,
		"bogus":   INFO,
		"":        INFO,
	}
	for in, want := range cases {
		assert.Equal(t, want, LevelFromString(in), in)
	}
	assert.Equal(t, "WARN", LogLevel(WARN).String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr := NewWithOutput(context.Background(), "test", WARN, nil, &buf)
	ctx := context.Background()

	lgr.Infof(ctx, "hidden %d", 1)
	lgr.Debug(ctx, "hidden too")
	assert.Empty(t, buf.String())

	lgr.Warnf(ctx, "shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
	assert.Contains(t, buf.String(), "WARN")
}

func TestLoggerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	lgr := NewWithOutput(context.Background(), "test", DEBUG, nil, &buf)
	ctx := contextutils.WithRequestID(context.Background(), "req-123")

	lgr.Info(ctx, "hello")
	assert.Contains(t, buf.String(), "req-123")
	assert.Contains(t, buf.String(), "hello")
}

func TestCloneNamesChild(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithOutput(context.Background(), "parent", INFO, nil, &buf)

	child, ctx := parent.Clone("child")
	require.NotNil(t, ctx)
	child.Info(ctx, "from child")
	assert.Contains(t, buf.String(), "parent.child")
	assert.Equal(t, parent.Level(), child.Level())
}

func TestFatalReportsOnExitChannel(t *testing.T) {
	var buf bytes.Buffer
	exitCh := make(chan string, 1)
	lgr := NewWithOutput(context.Background(), "test", INFO, exitCh, &buf)

	lgr.Fatalf(context.Background(), "boom %s", "now")
	select {
	case s := <-exitCh:
		assert.Equal(t, "boom now", s)
	default:
		t.Fatal("expected message on exit channel")
	}

	// a full channel never blocks the caller
	exitCh <- "pending"
	lgr.Fatal(context.Background(), "second")
	assert.Equal(t, "pending", <-exitCh)
}
