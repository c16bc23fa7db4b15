// Package requestcontext provides HTTP-independent accessors for
// request-scoped values.
//
// Middleware sets these values; services and handlers read them without
// importing net/http. Tests inject fixed values (notably a fixed time) the
// same way.
package requestcontext

import (
	"context"
	"time"

	id "fondos/pkg/domain"
)

type (
	clientIDKey    struct{}
	clientRoleKey  struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// ClientID retrieves the authenticated client ID from the context.
// Returns the zero value (nil UUID) if not set.
func ClientID(ctx context.Context) id.ClientID {
	if clientID, ok := ctx.Value(clientIDKey{}).(id.ClientID); ok {
		return clientID
	}
	return id.ClientID{}
}

// WithClientID injects an authenticated client ID into the context.
func WithClientID(ctx context.Context, clientID id.ClientID) context.Context {
	return context.WithValue(ctx, clientIDKey{}, clientID)
}

// Role retrieves the authenticated caller's role ("user" or "admin").
func Role(ctx context.Context) string {
	if role, ok := ctx.Value(clientRoleKey{}).(string); ok {
		return role
	}
	return ""
}

// WithRole injects the caller's role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, clientRoleKey{}, role)
}

// RequestID retrieves the correlation ID assigned by middleware.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request time if one was injected, else the wall clock.
// Services use this so tests can pin timestamps.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request time in the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
