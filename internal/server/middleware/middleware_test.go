package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/llama-swappo/swappo/internal/logger"
	contextutils "github.com/llama-swappo/swappo/internal/utils/context"
	logutils "github.com/llama-swappo/swappo/internal/utils/logger"
)

func TestWrapCarriesRequestContext(t *testing.T) {
	var logs bytes.Buffer
	lgr := logger.NewWithOutput(context.Background(), "test", logger.INFO, nil, &logs)
	base := logutils.ContextWithLogger(context.Background(), lgr)

	var (
		requestID   string
		hasDeadline bool
		gotLogger   *logger.Logger
	)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = contextutils.GetRequestID(r.Context())
		_, hasDeadline = r.Context().Deadline()
		gotLogger = logutils.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	h := Wrap(base, inner, Params{Timeout: time.Minute})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, rec.Header().Get("X-Request-ID"))
	assert.True(t, hasDeadline)
	assert.Same(t, lgr, gotLogger)
	assert.Contains(t, logs.String(), "Request: GET /index.html // Response: 418")
	assert.Contains(t, logs.String(), requestID)
}

func TestWrapWithoutTimeout(t *testing.T) {
	var hasDeadline bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})

	rec := httptest.NewRecorder()
	Wrap(context.Background(), inner, Params{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, hasDeadline)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCorsPreflightSkipsHandler(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	withCors(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, rec.Body.Len())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
