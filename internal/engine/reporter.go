package engine

import (
	"context"
	"log/slog"
)

// ErrorReporter receives errors the engine swallows at its boundary, such
// as a failed account write. Implementations forward them to an error
// tracking service.
type ErrorReporter interface {
	CaptureException(ctx context.Context, err error, tags map[string]string)
}

// LogErrorReporter reports errors through slog.
type LogErrorReporter struct {
	Logger *slog.Logger
}

// CaptureException implements ErrorReporter.
func (r LogErrorReporter) CaptureException(ctx context.Context, err error, tags map[string]string) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := make([]any, 0, 2+2*len(tags))
	attrs = append(attrs, "error", err)
	for k, v := range tags {
		attrs = append(attrs, k, v)
	}
	logger.ErrorContext(ctx, "exception captured", attrs...)
}
