package chat

import (
	"context"
	"io"

	openai "github.com/llama-swappo/swappo/internal/api/openai/v1"
	"github.com/llama-swappo/swappo/internal/backend"
)

var _ backend.Backend = &fakeBackend{}

// fakeBackend replies with a fixed list of fragments and records requests.
type fakeBackend struct {
	fragments []string
	// openErr fails the request before any fragment
	openErr error
	// recvErr is returned after all fragments instead of io.EOF
	recvErr error

	requests []openai.ChatCompletionRequest
	closed   int
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) ChatCompletion(_ context.Context, req *openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, *req)
	if f.openErr != nil {
		return nil, f.openErr
	}
	var content string
	for _, fr := range f.fragments {
		content += fr
	}
	return &openai.ChatCompletionResponse{
		Model: req.Model,
		Choices: []openai.Choice{{
			Message: openai.Message{Role: openai.RoleAssistant, Content: content},
		}},
	}, nil
}

func (f *fakeBackend) ChatCompletionStream(_ context.Context, req *openai.ChatCompletionRequest) (backend.Stream, error) {
	f.requests = append(f.requests, *req)
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &fakeStream{parent: f}, nil
}

type fakeStream struct {
	parent *fakeBackend
	next   int
}

func (s *fakeStream) Recv() (openai.ChatCompletionStreamResponse, error) {
	if s.next >= len(s.parent.fragments) {
		if s.parent.recvErr != nil {
			return openai.ChatCompletionStreamResponse{}, s.parent.recvErr
		}
		return openai.ChatCompletionStreamResponse{}, io.EOF
	}
	fragment := s.parent.fragments[s.next]
	s.next++
	return openai.ChatCompletionStreamResponse{
		Choices: []openai.StreamChoice{{Delta: openai.Delta{Content: fragment}}},
	}, nil
}

func (s *fakeStream) Close() error {
	s.parent.closed++
	return nil
}
