package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/llama-swappo/swappo/internal/utils"
	contextutils "github.com/llama-swappo/swappo/internal/utils/context"
	logutils "github.com/llama-swappo/swappo/internal/utils/logger"
)

const requestIDHeader = "X-Request-ID"

// withContext carries the server's logger into the request context, injects a
// request ID and applies the timeout.
func withContext(base context.Context, next http.Handler, timeout time.Duration) http.Handler {
	lgr := logutils.FromContext(base)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logutils.ContextWithLogger(r.Context(), lgr)
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = utils.GenerateRequestID()
		}
		ctx = contextutils.WithRequestID(ctx, requestID)
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
