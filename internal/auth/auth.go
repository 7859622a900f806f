// Package auth handles the storefront login gate. Credential checks are
// delegated to the store API; this package owns the session identity and the
// deliberately generic failure message shown to visitors.
package auth

import "errors"

// ErrInvalidCredentials is returned for every login failure, whatever the
// upstream cause. Wrong password, unknown account, and upstream outages all
// read the same to the visitor.
var ErrInvalidCredentials = errors.New("Invalid email or password. Please try again.")

// Identity is the signed-in visitor as reported by the store API.
type Identity struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// SignedIn reports whether the identity carries a token.
func (id Identity) SignedIn() bool {
	return id.Token != ""
}
