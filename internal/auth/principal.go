// Package auth resolves who placed an order. Authentication is optional: a
// request without a usable bearer token is a guest checkout.
package auth

import (
	"context"
	"strings"
)

// Identity is an authenticated shopper as reported by the auth service.
type Identity struct {
	UserID string
	Email  string
}

// Principal is either a guest or an authenticated Identity. The zero value is
// a guest.
type Principal struct {
	identity *Identity
}

// Guest returns the principal for an anonymous checkout.
func Guest() Principal {
	return Principal{}
}

// Authenticated returns the principal for id.
func Authenticated(id Identity) Principal {
	return Principal{identity: &id}
}

// Identity reports the authenticated identity, if any.
func (p Principal) Identity() (Identity, bool) {
	if p.identity == nil {
		return Identity{}, false
	}
	return *p.identity, true
}

// UserID is the authenticated user's id, or nil for a guest.
func (p Principal) UserID() *string {
	if p.identity == nil {
		return nil
	}
	id := p.identity.UserID
	return &id
}

// Resolver maps a bearer token to an Identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

// BearerToken extracts the token from an Authorization header value.
// It returns "" when there is none.
func BearerToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
