package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToken(userID, hash string, kind domain.TokenKind, expires time.Time) *domain.Token {
	return &domain.Token{
		Hash:      hash,
		UserID:    userID,
		Kind:      kind,
		ExpiresAt: expires,
		CreatedAt: time.Now().UTC(),
	}
}

func TestTokenRepo_CreateAndGetByHash(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	u := testutil.NewTestUser()
	require.NoError(t, NewSQLiteUserRepo(db).Create(ctx, u))

	repo := NewSQLiteTokenRepo(db)
	expires := time.Now().UTC().Add(time.Hour)
	require.NoError(t, repo.Create(ctx, newToken(u.ID, "h1", domain.TokenAccess, expires)))

	got, err := repo.GetByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)
	assert.Equal(t, domain.TokenAccess, got.Kind)
	assert.Nil(t, got.RevokedAt)
	assert.True(t, got.Active(time.Now()))
	assert.False(t, got.Active(expires.Add(time.Second)))
}

func TestTokenRepo_Revoke(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	u := testutil.NewTestUser()
	require.NoError(t, NewSQLiteUserRepo(db).Create(ctx, u))

	repo := NewSQLiteTokenRepo(db)
	require.NoError(t, repo.Create(ctx, newToken(u.ID, "h1", domain.TokenRefresh, time.Now().Add(time.Hour))))

	require.NoError(t, repo.Revoke(ctx, "h1", time.Now()))
	got, err := repo.GetByHash(ctx, "h1")
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	assert.False(t, got.Active(time.Now()))

	// A second revoke finds no active token.
	assert.ErrorIs(t, repo.Revoke(ctx, "h1", time.Now()), ErrNotFound)
}

func TestTokenRepo_RevokeAllForUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	users := NewSQLiteUserRepo(db)
	a, b := testutil.NewTestUser(), testutil.NewTestUser()
	require.NoError(t, users.Create(ctx, a))
	require.NoError(t, users.Create(ctx, b))

	repo := NewSQLiteTokenRepo(db)
	exp := time.Now().Add(time.Hour)
	require.NoError(t, repo.Create(ctx, newToken(a.ID, "a1", domain.TokenAccess, exp)))
	require.NoError(t, repo.Create(ctx, newToken(a.ID, "a2", domain.TokenRefresh, exp)))
	require.NoError(t, repo.Create(ctx, newToken(b.ID, "b1", domain.TokenAccess, exp)))

	n, err := repo.RevokeAllForUser(ctx, a.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	other, err := repo.GetByHash(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, other.RevokedAt)
}

func TestTokenRepo_DeleteExpired(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	u := testutil.NewTestUser()
	require.NoError(t, NewSQLiteUserRepo(db).Create(ctx, u))

	repo := NewSQLiteTokenRepo(db)
	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newToken(u.ID, "old", domain.TokenAccess, now.Add(-time.Minute))))
	require.NoError(t, repo.Create(ctx, newToken(u.ID, "new", domain.TokenAccess, now.Add(time.Minute))))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByHash(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByHash(ctx, "new")
	assert.NoError(t, err)
}

func TestTokenRepo_DeleteExpired_KeepsTokenValidWithinTheSecond(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	u := testutil.NewTestUser()
	require.NoError(t, NewSQLiteUserRepo(db).Create(ctx, u))

	repo := NewSQLiteTokenRepo(db)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newToken(u.ID, "soon", domain.TokenAccess, now.Add(500*time.Millisecond))))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = repo.DeleteExpired(ctx, now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
