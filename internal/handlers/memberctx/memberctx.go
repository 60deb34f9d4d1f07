// Package memberctx carries the authenticated member through the request
// context. The auth middleware puts it there; handlers read it back instead
// of relying on any process wide "current caller" state.
package memberctx

import (
	"context"

	"github.com/jyoon-dev/skyticket/internal/models"
)

type ctxKey string

const memberKey ctxKey = "member"

// New returns a context carrying the member
func New(ctx context.Context, m models.Member) context.Context {
	return context.WithValue(ctx, memberKey, m)
}

// FromContext extracts the member, ok is false for anonymous requests
func FromContext(ctx context.Context) (models.Member, bool) {
	m, ok := ctx.Value(memberKey).(models.Member)
	return m, ok
}
