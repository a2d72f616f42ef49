// Package requestctx carries the two correlation ids the pipeline logs by:
// the HTTP request id and the batch run id.
package requestctx

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	runIDKey     ctxKey = "run_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// WithRunID tags the context a batch run executes under.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

func GetRunID(ctx context.Context) string {
	if value, ok := ctx.Value(runIDKey).(string); ok {
		return value
	}
	return ""
}
