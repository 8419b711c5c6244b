// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets the values; services read them. Keeping this package free of
// net/http lets the core services depend on it without pulling in transport code.
//
// Usage in services:
//
//	session := requestcontext.SessionFrom(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests:
//
//	ctx = requestcontext.WithSession(ctx, requestcontext.Session{CitizenID: cid, Role: id.RoleCitizen})
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "onegov/pkg/domain"
)

type (
	sessionKey     struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	clientIPKey    struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeySession     = sessionKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyClientIP    = clientIPKey{}
)

// -----------------------------------------------------------------------------
// Session
// -----------------------------------------------------------------------------

// Session is the acting identity for a core call. Anonymous calls carry the
// zero Session.
type Session struct {
	CitizenID id.CitizenID
	Role      id.ActorRole
}

// IsAnonymous reports whether no actor is attached.
func (s Session) IsAnonymous() bool {
	return s.Role == ""
}

// SessionFrom retrieves the session. Returns the zero Session if not set.
func SessionFrom(ctx context.Context) Session {
	if s, ok := ctx.Value(ContextKeySession).(Session); ok {
		return s
	}
	return Session{}
}

// WithSession injects a session into the context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ContextKeySession, s)
}

// CitizenID is shorthand for SessionFrom(ctx).CitizenID.
func CitizenID(ctx context.Context) id.CitizenID {
	return SessionFrom(ctx).CitizenID
}

// Role is shorthand for SessionFrom(ctx).Role.
func Role(ctx context.Context) id.ActorRole {
	return SessionFrom(ctx).Role
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// -----------------------------------------------------------------------------
// Client metadata
// -----------------------------------------------------------------------------

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// WithClientIP injects a client IP into a context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ContextKeyClientIP, ip)
}
