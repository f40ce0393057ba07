package middleware

import (
	"context"

	pkgAuth "github.com/angelmondragon/ordermanagement-api/pkg/auth"
	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
)

type contextKey string

const (
	ctxAccountID contextKey = "account_id"
	ctxIdentity  contextKey = "identity"
)

func AccountIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccountID).(string); ok {
		return v
	}
	return ""
}

// IdentityFromContext returns the authenticated identity, or nil when the
// request passed through optional auth without credentials.
func IdentityFromContext(ctx context.Context) *pkgAuth.Identity {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxIdentity).(*pkgAuth.Identity); ok {
		return v
	}
	return nil
}

// AccountFromContext returns the authenticated account, if any.
func AccountFromContext(ctx context.Context) *models.Account {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return nil
	}
	return identity.Account
}

// WithIdentity injects the authenticated identity into the context.
func WithIdentity(ctx context.Context, identity *pkgAuth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if identity == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, ctxIdentity, identity)
	if identity.Account != nil {
		ctx = context.WithValue(ctx, ctxAccountID, identity.Account.ID.String())
	}
	return ctx
}
