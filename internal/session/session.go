// Package session holds the signed-in user's credentials on the client and
// the provider that obtains, refreshes and discards them.
package session

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// Session is the authenticated context for one operation. Views fetch a
// fresh Session from a Provider each time and never keep it.
type Session struct {
	Token  *oauth2.Token
	UserID string
	Email  string
}

// AccessToken returns the bearer credential, or "" for a nil session.
func (s *Session) AccessToken() string {
	if s == nil || s.Token == nil {
		return ""
	}
	return s.Token.AccessToken
}

// Valid reports whether the access token is present and unexpired.
func (s *Session) Valid() bool {
	return s != nil && s.Token.Valid()
}

// Expiry returns the access token expiry, zero if unknown.
func (s *Session) Expiry() time.Time {
	if s == nil || s.Token == nil {
		return time.Time{}
	}
	return s.Token.Expiry
}

// Provider is the identity collaborator injected into every view.
// Current returns a *domain.Error of KindSessionMissing when nobody is
// signed in.
type Provider interface {
	Current(ctx context.Context) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
}
