package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	openai "github.com/llama-swappo/swappo/internal/api/openai/v1"
	"github.com/llama-swappo/swappo/internal/backend"
	"github.com/llama-swappo/swappo/internal/backend/util"
	logutils "github.com/llama-swappo/swappo/internal/utils/logger"
)

var _ backend.Backend = &compatBackend{}

type compatBackend struct {
	endpoint string
	apikey   string
	timeout  time.Duration
	client   *http.Client
}

type Options struct {
	// Endpoint is the API base, e.g. http://localhost:8080/v1
	Endpoint string
	ApiKey   string
	// Timeout bounds unary requests. Streamed completions are not bounded.
	Timeout time.Duration
	// Client overrides the HTTP client, mostly for tests.
	Client *http.Client
}

func NewBackend(opts Options) (backend.Backend, error) {
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
	return &compatBackend{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		apikey:   opts.ApiKey,
		timeout:  opts.Timeout,
		client:   client,
	}, nil
}

// Name returns the name of the backend
func (b *compatBackend) Name() string {
	return "openai-compatible"
}

// ChatCompletion performs a unary chat completion
func (b *compatBackend) ChatCompletion(ctx context.Context, req *openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	lgr := logutils.FromContext(ctx)

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	unary := *req
	unary.Stream = false
	resp, err := b.do(ctx, &unary)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := util.ReadResponse(resp)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response")
	}
	lgr.Tracef(ctx, "response body: %s", string(body))

	var completion openai.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, errors.Wrapf(err, "error parsing response %s", util.TruncateString(string(body), 200))
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("response contained no choices")
	}
	lgr.Debugf(ctx, "completion from %s: %d prompt tokens, %d completion tokens",
		completion.Model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	return &completion, nil
}

// ChatCompletionStream starts a streamed chat completion
func (b *compatBackend) ChatCompletionStream(ctx context.Context, req *openai.ChatCompletionRequest) (backend.Stream, error) {
	streamed := *req
	streamed.Stream = true
	resp, err := b.do(ctx, &streamed)
	if err != nil {
		return nil, err
	}
	return newSSEStream(ctx, resp.Body), nil
}

// do sends the request and turns non-2xx answers into a *backend.StatusError.
func (b *compatBackend) do(ctx context.Context, req *openai.ChatCompletionRequest) (*http.Response, error) {
	lgr := logutils.FromContext(ctx)

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "error marshalling request")
	}
	lgr.Debugf(ctx, "request body: %s", util.TruncateString(string(reqBody), 500))

	targetURL := b.endpoint + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "error creating request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if b.apikey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apikey)
	}
	if req.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
		httpReq.Header.Set("Cache-Control", "no-cache")
	} else {
		httpReq.Header.Set("Accept", "application/json")
		httpReq.Header.Set("Accept-Encoding", "gzip, br, deflate")
	}

	lgr.Debugf(ctx, "POST %s model=%s stream=%t messages=%d", targetURL, req.Model, req.Stream, len(req.Messages))
	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "error sending request")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		respBody, _ := util.ReadResponse(resp)
		lgr.Infof(ctx, "backend error response %d: %s", resp.StatusCode, string(respBody))
		return nil, &backend.StatusError{
			StatusCode: resp.StatusCode,
			Body:       util.ErrorMessage(respBody),
		}
	}
	return resp, nil
}
