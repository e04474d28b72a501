package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/studenttracker/internal/db"
	"github.com/alexanderramin/studenttracker/internal/domain"
)

// SQLiteTokenRepo implements TokenRepo.
type SQLiteTokenRepo struct {
	db db.DBTX
}

func NewSQLiteTokenRepo(db db.DBTX) *SQLiteTokenRepo {
	return &SQLiteTokenRepo{db: db}
}

func (r *SQLiteTokenRepo) Create(ctx context.Context, t *domain.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (hash, user_id, kind, expires_at, revoked_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.Hash, t.UserID, string(t.Kind), formatTime(t.ExpiresAt), nullableTime(t.RevokedAt), formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting auth token: %w", err)
	}
	return nil
}

func (r *SQLiteTokenRepo) GetByHash(ctx context.Context, hash string) (*domain.Token, error) {
	var t domain.Token
	var kind, expiresAt, createdAt string
	var revokedAt sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT hash, user_id, kind, expires_at, revoked_at, created_at FROM auth_tokens WHERE hash = ?`, hash).
		Scan(&t.Hash, &t.UserID, &kind, &expiresAt, &revokedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("auth token: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning auth token: %w", err)
	}

	t.Kind = domain.TokenKind(kind)
	if t.ExpiresAt, err = parseTime(expiresAt, "expires_at"); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if t.RevokedAt, err = parseNullableTime(revokedAt, "revoked_at"); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *SQLiteTokenRepo) Revoke(ctx context.Context, hash string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE auth_tokens SET revoked_at = ? WHERE hash = ? AND revoked_at IS NULL`, formatTime(at), hash)
	if err != nil {
		return fmt.Errorf("revoking auth token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoking auth token: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("active auth token: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteTokenRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE auth_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`, formatTime(at), userID)
	if err != nil {
		return 0, fmt.Errorf("revoking user tokens: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE expires_at < ?`, formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("deleting expired tokens: %w", err)
	}
	return res.RowsAffected()
}
