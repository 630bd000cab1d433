// Package ctxutil carries the request-scoped actor identity through contexts.
// It replaces the process-global "current user" the original desktop client
// kept: every operation that needs to know who is acting reads it from the
// context it was called with, so concurrent sessions never share state.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	actorKey  ctxKey = "actor"
	originKey ctxKey = "origin"
)

// Actor identifies the authenticated user performing the current request.
type Actor struct {
	UserID   uuid.UUID
	Username string
}

// WithActor stores the acting user in the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFromCtx extracts the acting user from the context.
// Returns false if the value is missing or carries a nil user ID.
func ActorFromCtx(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	if !ok || a.UserID == uuid.Nil {
		return Actor{}, false
	}
	return a, true
}

// WithOrigin stores the request origin (e.g. a remote network address) in the
// context. Audit records pick it up when present.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey, origin)
}

// OriginFromCtx extracts the request origin from the context.
// Returns an empty string if absent.
func OriginFromCtx(ctx context.Context) string {
	origin, _ := ctx.Value(originKey).(string)
	return origin
}
