package service

import (
	"context"
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

// LogService owns log entries on the server. Entries are scoped to the
// user they were created for.
type LogService interface {
	List(ctx context.Context, userID string) ([]domain.LogEntry, error)
	Create(ctx context.Context, userID string, in domain.NewLogEntry) (*domain.LogEntry, error)
}

// AuthService registers users and issues, checks and revokes tokens.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	PasswordGrant(ctx context.Context, email, password string) (*TokenPair, error)
	RefreshGrant(ctx context.Context, refreshToken string) (*TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
	SignOut(ctx context.Context, userID string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

// TokenPair is the result of a successful grant. The secrets are only ever
// available here; the store keeps their hashes.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	User         *domain.User
}
