// Package session carries the signed-in identity through request contexts so
// data access code never reads global auth state.
package session

import "context"

// Identity is the authenticated user for a request.
type Identity struct {
	ID        string
	Email     string
	SessionID string
}

// Source yields the current identity, if any.
type Source interface {
	CurrentUser(ctx context.Context) (Identity, bool)
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.ID == "" {
		return Identity{}, false
	}
	return id, true
}

// ContextSource resolves identity from the request context.
type ContextSource struct{}

// CurrentUser implements Source.
func (ContextSource) CurrentUser(ctx context.Context) (Identity, bool) {
	return FromContext(ctx)
}

// Static always reports the same identity. A zero Identity means signed out.
type Static struct {
	Identity Identity
}

// CurrentUser implements Source.
func (s Static) CurrentUser(context.Context) (Identity, bool) {
	if s.Identity.ID == "" {
		return Identity{}, false
	}
	return s.Identity, true
}
