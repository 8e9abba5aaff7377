package chat

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llama-swappo/swappo/internal/ui"
)

type readResult struct {
	line string
	err  error
}

// scriptedReader replays canned ReadLine results, then io.EOF.
type scriptedReader struct {
	results []readResult
	prompts int
}

func (r *scriptedReader) ReadLine(prompt string) (string, error) {
	r.prompts++
	if len(r.results) == 0 {
		return "", io.EOF
	}
	next := r.results[0]
	r.results = r.results[1:]
	return next.line, next.err
}

func (r *scriptedReader) Close() error { return nil }

func lines(ls ...string) []readResult {
	out := make([]readResult, 0, len(ls))
	for _, l := range ls {
		out = append(out, readResult{line: l})
	}
	return out
}

func TestREPLConversation(t *testing.T) {
	be := &fakeBackend{fragments: []string{"Hello", " there"}}
	s := newTestSession(be, "deepseek")
	var out bytes.Buffer
	reader := &scriptedReader{results: lines("", "hi", "/quit", "never read")}

	require.NoError(t, NewREPL(s, reader, &out).Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Code Chat - Model: deepseek-coder-v2-lite-instruct-q4_k_m")
	assert.Contains(t, text, "/model <deepseek|qwen>")
	assert.Contains(t, text, "Assistant:")
	assert.Contains(t, text, "Hello there")
	assert.Contains(t, text, "Goodbye!")
	assert.Equal(t, 3, reader.prompts)
	assert.Len(t, s.History(), 2)
	assert.Len(t, be.requests, 1)
}

func TestREPLEndOfInputQuits(t *testing.T) {
	s := newTestSession(&fakeBackend{}, "deepseek")
	var out bytes.Buffer

	require.NoError(t, NewREPL(s, &scriptedReader{}, &out).Run(context.Background()))
	assert.True(t, strings.HasSuffix(out.String(), "Goodbye!\n\n"))
}

func TestREPLInterruptPrintsHint(t *testing.T) {
	s := newTestSession(&fakeBackend{}, "deepseek")
	var out bytes.Buffer
	reader := &scriptedReader{results: []readResult{{err: ui.ErrInterrupted}}}

	require.NoError(t, NewREPL(s, reader, &out).Run(context.Background()))
	assert.Contains(t, out.String(), "Use /quit to exit")
	assert.Equal(t, 2, reader.prompts)
}

func TestREPLReadError(t *testing.T) {
	s := newTestSession(&fakeBackend{}, "deepseek")
	reader := &scriptedReader{results: []readResult{{err: errors.New("terminal gone")}}}

	err := NewREPL(s, reader, io.Discard).Run(context.Background())
	assert.EqualError(t, err, "terminal gone")
}

func TestREPLCommands(t *testing.T) {
	be := &fakeBackend{fragments: []string{"ok"}}
	s := newTestSession(be, "deepseek")
	var out bytes.Buffer
	reader := &scriptedReader{results: lines("hi", "/clear", "/model llama", "/model QWEN", "/help")}

	require.NoError(t, NewREPL(s, reader, &out).Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Conversation cleared")
	assert.Contains(t, text, "Unknown model. Use: deepseek or qwen")
	assert.Contains(t, text, "Switched to qwen")
	assert.Equal(t, "qwen2.5-coder-7b-instruct-q5_k_m", s.Model())
	assert.Empty(t, s.History())
	assert.Equal(t, 2, strings.Count(text, "Commands:"))
}

func TestREPLBackendErrorContinues(t *testing.T) {
	be := &fakeBackend{openErr: errors.New("backend returned 503")}
	s := newTestSession(be, "deepseek")
	var out bytes.Buffer
	reader := &scriptedReader{results: lines("one", "two")}

	require.NoError(t, NewREPL(s, reader, &out).Run(context.Background()))

	assert.Equal(t, 2, strings.Count(out.String(), "Error: backend returned 503"))
	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, "one", history[0].Content)
	assert.Equal(t, "two", history[1].Content)
}
