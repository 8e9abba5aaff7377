package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	ollama "github.com/llama-swappo/swappo/internal/api/ollama/v1"
	openai "github.com/llama-swappo/swappo/internal/api/openai/v1"
	"github.com/llama-swappo/swappo/internal/backend"
	"github.com/llama-swappo/swappo/internal/backend/util"
	logutils "github.com/llama-swappo/swappo/internal/utils/logger"
)

var _ backend.Stream = &ndjsonStream{}

// ndjsonStream decodes one JSON object per line until a line with done set.
type ndjsonStream struct {
	ctx    context.Context
	body   io.ReadCloser
	reader *bufio.Reader
	done   bool
}

func newNDJSONStream(ctx context.Context, body io.ReadCloser) *ndjsonStream {
	return &ndjsonStream{
		ctx:    ctx,
		body:   body,
		reader: bufio.NewReader(body),
	}
}

func (s *ndjsonStream) Recv() (openai.ChatCompletionStreamResponse, error) {
	lgr := logutils.FromContext(s.ctx)
	for {
		if s.done {
			return openai.ChatCompletionStreamResponse{}, io.EOF
		}

		line, readErr := s.reader.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			s.done = true
			return openai.ChatCompletionStreamResponse{}, errors.Wrap(readErr, "error reading stream")
		}
		if readErr == io.EOF {
			s.done = true
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var resp ollama.ChatResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			s.done = true
			return openai.ChatCompletionStreamResponse{}, errors.Wrapf(backend.ErrMalformedStream, "%s: %s", err, util.TruncateString(string(line), 120))
		}
		if resp.Error != "" {
			s.done = true
			return openai.ChatCompletionStreamResponse{}, errors.Errorf("backend stream error: %s", resp.Error)
		}
		lgr.Tracef(s.ctx, "line: %s", string(line))
		if resp.Done {
			s.done = true
		}
		return convertChunk(&resp), nil
	}
}

func (s *ndjsonStream) Close() error {
	s.done = true
	return s.body.Close()
}
