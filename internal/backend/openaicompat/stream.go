package openaicompat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	openai "github.com/llama-swappo/swappo/internal/api/openai/v1"
	"github.com/llama-swappo/swappo/internal/backend"
	"github.com/llama-swappo/swappo/internal/backend/util"
	logutils "github.com/llama-swappo/swappo/internal/utils/logger"
)

var (
	dataPrefix  = []byte("data:")
	donePayload = []byte(openai.StreamDoneSentinel)
)

var _ backend.Stream = &sseStream{}

// sseStream decodes "data: <chunk>" events until the [DONE] sentinel. It reads
// on the caller's goroutine; nothing is buffered ahead of Recv.
type sseStream struct {
	ctx    context.Context
	body   io.ReadCloser
	reader *bufio.Reader
	done   bool
}

func newSSEStream(ctx context.Context, body io.ReadCloser) *sseStream {
	return &sseStream{
		ctx:    ctx,
		body:   body,
		reader: bufio.NewReaderSize(body, 4096),
	}
}

// Recv returns the next chunk, or io.EOF after the sentinel or the end of the
// body. A body that ends without the sentinel is treated as complete.
func (s *sseStream) Recv() (openai.ChatCompletionStreamResponse, error) {
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

		line = bytes.TrimRight(line, "\r\n")
		// blank lines separate events, lines starting with ':' are comments
		// (some servers send heartbeats that way), event:/id:/retry: fields
		// carry nothing we use
		if len(line) == 0 || line[0] == ':' || !bytes.HasPrefix(line, dataPrefix) {
			continue
		}

		payload := bytes.TrimSpace(line[len(dataPrefix):])
		if bytes.Equal(payload, donePayload) {
			lgr.Trace(s.ctx, "received [DONE]")
			s.done = true
			return openai.ChatCompletionStreamResponse{}, io.EOF
		}

		var chunk openai.ChatCompletionStreamResponse
		if err := json.Unmarshal(payload, &chunk); err != nil {
			s.done = true
			return chunk, errors.Wrapf(backend.ErrMalformedStream, "%s: %s", err, util.TruncateString(string(payload), 120))
		}
		if len(chunk.Choices) == 0 {
			// an error object may arrive mid-stream instead of a chunk
			var errResp openai.ErrorResponse
			if json.Unmarshal(payload, &errResp) == nil && errResp.Error.Message != "" {
				s.done = true
				return chunk, errors.Errorf("backend stream error: %s", errResp.Error.Message)
			}
		}
		lgr.Tracef(s.ctx, "chunk: %s", string(payload))
		return chunk, nil
	}
}

func (s *sseStream) Close() error {
	s.done = true
	return s.body.Close()
}
