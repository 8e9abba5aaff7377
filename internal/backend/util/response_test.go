package util

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWith(encoding string, body []byte) *http.Response {
	h := http.Header{}
	if encoding != "" {
		h.Set("Content-Encoding", encoding)
	}
	return &http.Response{Header: h, Body: io.NopCloser(bytes.NewReader(body))}
}

func TestReadResponsePlain(t *testing.T) {
	b, err := ReadResponse(responseWith("", []byte(`{"ok":true}`)))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(b))
}

func TestReadResponseGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("zipped"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	b, err := ReadResponse(responseWith("gzip", buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "zipped", string(b))
}

func TestReadResponseBrotli(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	_, err := bw.Write([]byte("squeezed"))
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	b, err := ReadResponse(responseWith("br", buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "squeezed", string(b))
}

func TestReadResponseBadGzip(t *testing.T) {
	_, err := ReadResponse(responseWith("gzip", []byte("not gzip")))
	assert.Error(t, err)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "model not found", ErrorMessage([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`)))
	assert.Equal(t, "model 'llama' not found", ErrorMessage([]byte(`{"error":"model 'llama' not found"}`)))
	assert.Equal(t, "upstream crashed", ErrorMessage([]byte("  upstream crashed\n")))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 5))
	assert.Equal(t, "ab...", TruncateString("abcdef", 2))
}
