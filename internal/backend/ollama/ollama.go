package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	ollama "github.com/llama-swappo/swappo/internal/api/ollama/v1"
	openai "github.com/llama-swappo/swappo/internal/api/openai/v1"
	"github.com/llama-swappo/swappo/internal/backend"
	"github.com/llama-swappo/swappo/internal/backend/util"
	logutils "github.com/llama-swappo/swappo/internal/utils/logger"
)

var _ backend.Backend = &ollamaBackend{}

// ollamaBackend talks to the Ollama-native chat API that llama-swappo serves
// next to the OpenAI one.
type ollamaBackend struct {
	endpoint string
	apikey   string
	timeout  time.Duration
	client   *http.Client
}

type Options struct {
	// Endpoint is the API base, e.g. http://localhost:8080/api
	Endpoint string
	ApiKey   string
	// Timeout bounds unary requests. Streamed completions are not bounded.
	Timeout time.Duration
	Client  *http.Client
}

func NewOllamaBackend(opts Options) (backend.Backend, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	client := opts.Client
	if client == nil {
		var err error
		client, err = util.NewHTTPClient()
		if err != nil {
			return nil, err
		}
	}
	return &ollamaBackend{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		apikey:   opts.ApiKey,
		timeout:  opts.Timeout,
		client:   client,
	}, nil
}

// Name returns the name of the backend
func (b *ollamaBackend) Name() string {
	return "ollama"
}

// ChatCompletion performs a unary chat completion
func (b *ollamaBackend) ChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	lgr := logutils.FromContext(ctx)

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	ollamaReq := convertRequest(req)
	ollamaReq.Stream = false
	resp, err := b.do(ctx, ollamaReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := util.ReadResponse(resp)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response")
	}

	var ollamaResp ollama.ChatResponse
	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return nil, errors.Wrapf(err, "error unmarshaling response %s", util.TruncateString(string(body), 200))
	}
	if ollamaResp.Error != "" {
		return nil, errors.Errorf("backend error: %s", ollamaResp.Error)
	}
	lgr.Debugf(ctx, "completion from %s: %d prompt tokens, %d completion tokens",
		ollamaResp.Model, ollamaResp.PromptEvalCount, ollamaResp.EvalCount)
	return convertResponse(&ollamaResp), nil
}

// ChatCompletionStream starts a streamed chat completion
func (b *ollamaBackend) ChatCompletionStream(ctx context.Context, req *openai.ChatCompletionRequest) (backend.Stream, error) {
	ollamaReq := convertRequest(req)
	ollamaReq.Stream = true
	resp, err := b.do(ctx, ollamaReq)
	if err != nil {
		return nil, err
	}
	return newNDJSONStream(ctx, resp.Body), nil
}

func (b *ollamaBackend) do(ctx context.Context, req *ollama.ChatRequest) (*http.Response, error) {
	lgr := logutils.FromContext(ctx)

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "error marshalling ollama request")
	}
	lgr.Debugf(ctx, "ollamaReqBody: %s", util.TruncateString(string(reqBody), 500))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/chat", bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "error creating request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.apikey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apikey)
	}
	if !req.Stream {
		httpReq.Header.Set("Accept-Encoding", "gzip, br, deflate")
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "error POSTing ollama request")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		respBody, _ := util.ReadResponse(resp)
		lgr.Infof(ctx, "ollama error response %d: %s", resp.StatusCode, string(respBody))
		return nil, &backend.StatusError{
			StatusCode: resp.StatusCode,
			Body:       util.ErrorMessage(respBody),
		}
	}
	return resp, nil
}
