package logutils

import (
	"context"

	"github.com/llama-swappo/swappo/internal/constants"
	"github.com/llama-swappo/swappo/internal/logger"
)

// FromContext retrieves the logger from the context, falling back to the
// package-level logger when none was attached.
func FromContext(ctx context.Context) *logger.Logger {
	if lgr, ok := ctx.Value(constants.LoggerKey).(*logger.Logger); ok {
		return lgr
	}
	return logger.Fallback
}

// ContextWithLogger adds a logger to the context
func ContextWithLogger(ctx context.Context, lgr *logger.Logger) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, lgr)
}
