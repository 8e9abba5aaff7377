package chat

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openai "github.com/llama-swappo/swappo/internal/api/openai/v1"
)

func newTestSession(be *fakeBackend, model string) *Session {
	opts := DefaultOptions()
	opts.Model = model
	return New(be, NewAliases(nil), opts)
}

func TestNewResolvesAlias(t *testing.T) {
	s := newTestSession(&fakeBackend{}, "qwen")
	assert.Equal(t, "qwen2.5-coder-7b-instruct-q5_k_m", s.Model())
	assert.Empty(t, s.History())

	s = newTestSession(&fakeBackend{}, "unknown-model")
	assert.Equal(t, "unknown-model", s.Model())
}

func TestSwitchModel(t *testing.T) {
	be := &fakeBackend{fragments: []string{"ok"}}
	s := newTestSession(be, "deepseek")
	_, err := s.Send(context.Background(), "hello", nil)
	require.NoError(t, err)
	require.Len(t, s.History(), 2)

	require.NoError(t, s.SwitchModel("qwen"))
	assert.Equal(t, "qwen2.5-coder-7b-instruct-q5_k_m", s.Model())
	assert.Empty(t, s.History())
}

func TestSwitchModelUnknownAlias(t *testing.T) {
	be := &fakeBackend{fragments: []string{"ok"}}
	s := newTestSession(be, "deepseek")
	_, err := s.Send(context.Background(), "hello", nil)
	require.NoError(t, err)
	before := s.History()

	err = s.SwitchModel("llama")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownModelAlias))
	assert.Equal(t, "deepseek-coder-v2-lite-instruct-q4_k_m", s.Model())
	assert.Equal(t, before, s.History())
}

func TestClear(t *testing.T) {
	be := &fakeBackend{fragments: []string{"ok"}}
	s := newTestSession(be, "deepseek")
	_, err := s.Send(context.Background(), "hello", nil)
	require.NoError(t, err)

	s.Clear()
	assert.Empty(t, s.History())
	assert.Equal(t, "deepseek-coder-v2-lite-instruct-q4_k_m", s.Model())
}

func TestSendMessageStreamsFragments(t *testing.T) {
	be := &fakeBackend{fragments: []string{"def ", "add(a, b):", " return a + b"}}
	s := newTestSession(be, "deepseek")

	var got []string
	for fragment, err := range s.SendMessage(context.Background(), "hello") {
		require.NoError(t, err)
		got = append(got, fragment)
	}
	assert.Equal(t, be.fragments, got)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, openai.Message{Role: openai.RoleUser, Content: "hello"}, history[0])
	assert.Equal(t, openai.Message{Role: openai.RoleAssistant, Content: "def add(a, b): return a + b"}, history[1])

	require.Len(t, be.requests, 1)
	req := be.requests[0]
	assert.Equal(t, "deepseek-coder-v2-lite-instruct-q4_k_m", req.Model)
	assert.True(t, req.Stream)
	require.NotNil(t, req.MaxTokens)
	assert.Equal(t, 500, *req.MaxTokens)
	assert.Equal(t, []openai.Message{{Role: openai.RoleUser, Content: "hello"}}, req.Messages)
	assert.Equal(t, 1, be.closed)
}

func TestSendMessageSendsFullHistory(t *testing.T) {
	be := &fakeBackend{fragments: []string{"ok"}}
	s := newTestSession(be, "deepseek")

	_, err := s.Send(context.Background(), "first", nil)
	require.NoError(t, err)
	_, err = s.Send(context.Background(), "second", nil)
	require.NoError(t, err)

	require.Len(t, be.requests, 2)
	assert.Len(t, be.requests[1].Messages, 3)
	assert.Equal(t, "second", be.requests[1].Messages[2].Content)
	assert.Len(t, s.History(), 4)
}

func TestSendMessageIsLazy(t *testing.T) {
	be := &fakeBackend{fragments: []string{"ok"}}
	s := newTestSession(be, "deepseek")

	seq := s.SendMessage(context.Background(), "hello")
	assert.Empty(t, s.History())
	assert.Empty(t, be.requests)

	for range seq {
	}
	assert.Len(t, s.History(), 2)
}

func TestSendMessageSingleUse(t *testing.T) {
	be := &fakeBackend{fragments: []string{"ok"}}
	s := newTestSession(be, "deepseek")

	seq := s.SendMessage(context.Background(), "hello")
	for range seq {
	}

	var errs []error
	for fragment, err := range seq {
		assert.Empty(t, fragment)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrStreamConsumed))
	assert.Len(t, s.History(), 2)
	assert.Len(t, be.requests, 1)
}

func TestSendMessageOpenFailureKeepsUserTurn(t *testing.T) {
	be := &fakeBackend{openErr: errors.New("connection refused")}
	s := newTestSession(be, "deepseek")

	var errs []error
	for fragment, err := range s.SendMessage(context.Background(), "hello") {
		assert.Empty(t, fragment)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "connection refused")

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, openai.RoleUser, history[0].Role)
}

func TestSendMessageMidStreamFailure(t *testing.T) {
	be := &fakeBackend{fragments: []string{"partial"}, recvErr: errors.New("malformed chunk")}
	s := newTestSession(be, "deepseek")

	var out bytes.Buffer
	reply, err := s.Send(context.Background(), "hello", &out)
	require.Error(t, err)
	assert.Equal(t, "partial", reply)
	assert.Equal(t, "partial", out.String())
	assert.Len(t, s.History(), 1)
	assert.Equal(t, 1, be.closed)
}

func TestSendMessageEarlyStop(t *testing.T) {
	be := &fakeBackend{fragments: []string{"a", "b", "c"}}
	s := newTestSession(be, "deepseek")

	for fragment, err := range s.SendMessage(context.Background(), "hello") {
		require.NoError(t, err)
		assert.Equal(t, "a", fragment)
		break
	}
	assert.Len(t, s.History(), 1)
	assert.Equal(t, 1, be.closed)
}

func TestSendNonStreaming(t *testing.T) {
	be := &fakeBackend{fragments: []string{"whole ", "reply"}}
	opts := DefaultOptions()
	opts.Stream = false
	opts.MaxTokens = 0
	s := New(be, nil, opts)

	var out bytes.Buffer
	reply, err := s.Send(context.Background(), "hello", &out)
	require.NoError(t, err)
	assert.Equal(t, "whole reply", reply)
	assert.Equal(t, "whole reply", out.String())
	assert.Len(t, s.History(), 2)

	require.Len(t, be.requests, 1)
	assert.False(t, be.requests[0].Stream)
	assert.Nil(t, be.requests[0].MaxTokens)
}

func TestHistoryIsACopy(t *testing.T) {
	be := &fakeBackend{fragments: []string{"ok"}}
	s := newTestSession(be, "deepseek")
	_, err := s.Send(context.Background(), "hello", nil)
	require.NoError(t, err)

	h := s.History()
	h[0].Content = "changed"
	assert.Equal(t, "hello", s.History()[0].Content)
}
