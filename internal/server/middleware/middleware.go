package middleware

import (
	"context"
	"net/http"
	"time"
)

type Params struct {
	// Timeout bounds each request. Zero means no bound.
	Timeout time.Duration
}

func Wrap(ctx context.Context, handler http.Handler, params Params) http.Handler {
	// These middlewares will be executed in the reverse order of their
	// wrapping. i.e. the last wrap operation will be the first one executed
	// on a request.
	handler = withCors(handler)
	handler = withLogging(handler)
	handler = withContext(ctx, handler, params.Timeout)
	return handler
}
