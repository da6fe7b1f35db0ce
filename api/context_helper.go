package api

import (
	"context"
	"time"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

type contextKey string

const (
	requestIDKey contextKey = "requestID"
	adminKey     contextKey = "admin"
)

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

// WithRequestID stores the request id on the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id stored by RequestLogger, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithAdmin stores the authenticated admin on the context
func WithAdmin(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, adminKey, email)
}

// Admin returns the admin authenticated by AdminAuth.Middleware, if any
func Admin(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(adminKey).(string)
	return email, ok
}
