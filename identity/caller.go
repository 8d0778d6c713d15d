package identity

import "context"

type callerKey struct{}

// WithCaller returns a context carrying the resolved caller id. The out-of-scope
// auth layer is expected to call this once per request.
func WithCaller(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}

// CallerFrom extracts the caller id set by WithCaller. The second return is false
// when no identity was resolved for this request.
func CallerFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(callerKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
