package model

import "context"

type ctxRunIDKey struct{}

// WithRunID returns a context carrying the ID of the current invocation
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRunIDKey{}, id)
}

// RunID returns the invocation ID of ctx, or an empty string
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxRunIDKey{}).(string); ok {
		return id
	}
	return ""
}
