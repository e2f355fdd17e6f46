package session

import (
	"context"
	"errors"
)

// LoginPath is where denied navigations are redirected.
const LoginPath = "/login"

// ErrNotAuthenticated signals a guard denial. It is a navigational outcome,
// not a reported failure: callers redirect to LoginPath instead of surfacing
// an error message.
var ErrNotAuthenticated = errors.New("not authenticated")

// Allowed reports whether a session admits access to protected views. Both
// conditions are required: a stale flag without a token, or a token without
// the flag, must each deny access.
func Allowed(sess Session) bool {
	return sess.LoggedIn && sess.Token != ""
}

// Guard evaluates the persisted session before a protected operation runs.
// It performs no network I/O and never validates the token server-side; it is
// a UI convenience, not a security boundary.
type Guard struct {
	store *Store
}

// NewGuard constructs a Guard over an explicit store.
func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Require loads the session and returns it when access is allowed, or
// ErrNotAuthenticated when it is not.
func (g *Guard) Require(ctx context.Context) (Session, error) {
	sess, err := g.store.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	if !Allowed(sess) {
		return Session{}, ErrNotAuthenticated
	}
	return sess, nil
}
