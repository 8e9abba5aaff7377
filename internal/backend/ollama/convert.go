package ollama

import (
	"time"

	ollama "github.com/llama-swappo/swappo/internal/api/ollama/v1"
	openai "github.com/llama-swappo/swappo/internal/api/openai/v1"
)

func convertRequest(req *openai.ChatCompletionRequest) *ollama.ChatRequest {
	messages := make([]ollama.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = ollama.Message{Role: m.Role, Content: m.Content}
	}

	out := &ollama.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   req.Stream,
	}
	if req.Temperature != nil || req.MaxTokens != nil {
		out.Options = &ollama.Options{Temperature: req.Temperature}
		if req.MaxTokens != nil {
			out.Options.NumPredict = *req.MaxTokens
		}
	}
	return out
}

func finishReason(resp *ollama.ChatResponse) string {
	if !resp.Done {
		return ""
	}
	if resp.DoneReason != "" {
		return resp.DoneReason
	}
	return "stop"
}

func usage(resp *ollama.ChatResponse) openai.Usage {
	return openai.Usage{
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
		TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
	}
}

func convertResponse(resp *ollama.ChatResponse) *openai.ChatCompletionResponse {
	return &openai.ChatCompletionResponse{
		ID:      "chatcmpl-" + time.Now().Format("20060102150405"),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   resp.Model,
		Choices: []openai.Choice{{
			Message: openai.Message{
				Role:    openai.RoleAssistant,
				Content: resp.Message.Content,
			},
			FinishReason: finishReason(resp),
		}},
		Usage: usage(resp),
	}
}

func convertChunk(resp *ollama.ChatResponse) openai.ChatCompletionStreamResponse {
	chunk := openai.ChatCompletionStreamResponse{
		Object:  "chat.completion.chunk",
		Created: time.Now().Unix(),
		Model:   resp.Model,
		Choices: []openai.StreamChoice{{
			Delta: openai.Delta{
				Role:    resp.Message.Role,
				Content: resp.Message.Content,
			},
			FinishReason: finishReason(resp),
		}},
	}
	if resp.Done {
		u := usage(resp)
		chunk.Usage = &u
	}
	return chunk
}
