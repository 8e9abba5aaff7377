package util

import (
	"compress/flate"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/pkg/errors"

	openai "github.com/llama-swappo/swappo/internal/api/openai/v1"
)

// ReadResponse reads the whole body, undoing any Content-Encoding the
// transport left in place.
func ReadResponse(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "error creating gzip reader")
		}
		defer gzReader.Close()
		reader = gzReader
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		flateReader := flate.NewReader(resp.Body)
		defer flateReader.Close()
		reader = flateReader
	}

	return io.ReadAll(reader)
}

// ErrorMessage extracts a readable message from an error body. The OpenAI
// envelope {"error":{"message":...}} and the Ollama form {"error":"..."} are
// recognised; anything else is returned truncated.
func ErrorMessage(body []byte) string {
	var errResp openai.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	var plain struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &plain); err == nil && plain.Error != "" {
		return plain.Error
	}
	return TruncateString(strings.TrimSpace(string(body)), 200)
}

func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
