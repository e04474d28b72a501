package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type TokenRepo interface {
	Create(ctx context.Context, t *domain.Token) error
	GetByHash(ctx context.Context, hash string) (*domain.Token, error)
	Revoke(ctx context.Context, hash string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type LogEntryRepo interface {
	Create(ctx context.Context, e *domain.LogEntry) error
	GetByID(ctx context.Context, id string) (*domain.LogEntry, error)
	// ListByUser returns a user's entries newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.LogEntry, error)
}
