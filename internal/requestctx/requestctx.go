package requestctx

import "context"

type requestIDKey struct{}

// WithRequestID stores the request id so handlers and services can echo it
// in the response envelope and in log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
