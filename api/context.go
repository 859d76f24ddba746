package api

import (
	"context"

	"github.com/rpupo63/ailabs-portal-backend/auth"
)

type keyType string

const identityKey keyType = "identity"

// ctxWithIdentity attaches the signed-in admin to the context
func ctxWithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// ctxGetIdentity retrieves the signed-in admin from the context
func ctxGetIdentity(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	return identity, ok
}
