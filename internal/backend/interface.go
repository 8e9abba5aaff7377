package backend

import (
	"context"

	openai "github.com/llama-swappo/swappo/internal/api/openai/v1"
)

// Stream yields the chunks of a streamed chat completion. Recv returns io.EOF
// once the stream has been drained.
type Stream interface {
	Recv() (openai.ChatCompletionStreamResponse, error)
	Close() error
}

// Backend defines the client side of an OpenAI-compatible completions endpoint
type Backend interface {
	// Name returns the name of the backend
	Name() string

	// ChatCompletion performs a unary chat completion
	ChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)

	// ChatCompletionStream starts a streamed chat completion. The request's
	// Stream field is forced to true.
	ChatCompletionStream(ctx context.Context, req *openai.ChatCompletionRequest) (Stream, error)
}
