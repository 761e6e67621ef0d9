package models

import "context"

type clientContextKey struct{}

// ClientInfo carries request metadata captured when a profile is first created.
type ClientInfo struct {
	UserAgent string
	RemoteIp  string
}

// WithClientInfo attaches client metadata to a context.
func WithClientInfo(ctx context.Context, ci ClientInfo) context.Context {
	return context.WithValue(ctx, clientContextKey{}, ci)
}

// GetClientInfo retrieves client metadata from context, or the zero value if absent.
func GetClientInfo(ctx context.Context) ClientInfo {
	ci, _ := ctx.Value(clientContextKey{}).(ClientInfo)
	return ci
}
