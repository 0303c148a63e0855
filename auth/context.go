// Package auth carries the user's platform credential through the gateway.
//
// Information Hiding:
// - Where the credential is stored between the login callback and dispatches
// - The OAuth2 endpoints, scopes and state bookkeeping of the login flow
//
// Lifecycle: the OAuth callback stores a token in a Holder once; every
// dispatch loads a Context from it and passes that value explicitly. The
// Holder's atomic store happens-before any load that observes it, so a
// dispatch either sees the whole token or none.
package auth

import (
	"errors"
	"strings"
	"sync/atomic"
)

// ErrUnauthenticated is returned when an operation needs a credential and
// the Context has none.
var ErrUnauthenticated = errors.New("user must authenticate via /auth/login first")

// Context is an immutable bearer credential. The zero value is anonymous.
type Context struct {
	token string
}

// WithToken returns a Context for token. Blank tokens yield an anonymous Context.
func WithToken(token string) Context {
	return Context{token: strings.TrimSpace(token)}
}

// Anonymous returns a Context with no credential.
func Anonymous() Context {
	return Context{}
}

// Token returns the bearer token and whether one is present.
func (c Context) Token() (string, bool) {
	return c.token, c.token != ""
}

// Authenticated reports whether a credential is present.
func (c Context) Authenticated() bool {
	return c.token != ""
}

// Require returns the token or ErrUnauthenticated.
func (c Context) Require() (string, error) {
	if c.token == "" {
		return "", ErrUnauthenticated
	}
	return c.token, nil
}

// Holder is the process-wide slot the login callback writes and
// dispatches read. It is safe for concurrent use.
type Holder struct {
	current atomic.Pointer[Context]
}

// Store replaces the held credential.
func (h *Holder) Store(c Context) {
	h.current.Store(&c)
}

// Load returns the held credential, or an anonymous Context.
func (h *Holder) Load() Context {
	if c := h.current.Load(); c != nil {
		return *c
	}
	return Context{}
}

// Clear drops the held credential.
func (h *Holder) Clear() {
	h.current.Store(nil)
}
