package shared

import (
	"context"

	"github.com/google/uuid"
)

type sessionContextKey struct{}
type businessContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithBusinessID stores the resolved business for the signed-in vendor.
func ContextWithBusinessID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, businessContextKey{}, id)
}

// BusinessIDFromContext extracts the vendor's business ID. The zero UUID
// means no business was resolved for the request.
func BusinessIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(businessContextKey{}).(uuid.UUID)
	return id
}
