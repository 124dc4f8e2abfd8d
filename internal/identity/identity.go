// Package identity defines the authenticated-user boundary. The rest of the
// system treats the verified email address as the stable user identifier;
// how the pair is obtained is this package's concern alone.
package identity

import "context"

// Identity is the verified (display name, email) pair for a signed-in user.
// Email is the stable identifier stamped on listings as seller or buyer.
type Identity struct {
	DisplayName string
	Email       string
}

// Zero reports whether the identity is unset.
func (id Identity) Zero() bool {
	return id.Email == ""
}

// Provider authenticates a user with an external identity service.
type Provider interface {
	// Authenticate runs the sign-in flow and returns the verified identity.
	Authenticate(ctx context.Context) (Identity, error)

	// SignOut invalidates any cached token so the next Authenticate starts
	// from scratch.
	SignOut(ctx context.Context) error
}
