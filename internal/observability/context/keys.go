package context

import "context"

type contextKey string

const (
	requestIDKey contextKey = "observability_request_id"
	callerKeyKey contextKey = "observability_caller_key"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func WithCallerKey(ctx context.Context, callerKey string) context.Context {
	if ctx == nil || callerKey == "" {
		return ctx
	}
	return context.WithValue(ctx, callerKeyKey, callerKey)
}

func CallerKeyFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(callerKeyKey).(string)
	return value
}
