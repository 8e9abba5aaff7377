package ollama

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  *Options  `json:"options,omitempty"`
}

// Options carries the sampling parameters Ollama accepts per request
type Options struct {
	Temperature *float64 `json:"temperature,omitempty"`
	// NumPredict caps the number of generated tokens
	NumPredict int `json:"num_predict,omitempty"`
}

// ChatResponse is a reply, or one line of a streamed reply, from /api/chat
type ChatResponse struct {
	Model      string  `json:"model"`
	CreatedAt  string  `json:"created_at"`
	Message    Message `json:"message"`
	Done       bool    `json:"done"`
	DoneReason string  `json:"done_reason,omitempty"`
	// token counts are only set on the final line
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Message represents a chat message in Ollama format
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
