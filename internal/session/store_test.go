package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testSession(expiry time.Time) *Session {
	return &Session{
		Token: &oauth2.Token{
			AccessToken:  "access-1",
			TokenType:    "Bearer",
			RefreshToken: "refresh-1",
			Expiry:       expiry,
		},
		UserID: "u-1",
		Email:  "ada@example.edu",
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	store := NewFileStore(path)

	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.Save(testSession(expiry)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", got.AccessToken())
	assert.Equal(t, "refresh-1", got.Token.RefreshToken)
	assert.True(t, expiry.Equal(got.Expiry()))
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "ada@example.edu", got.Email)
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotStored)
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))
	require.NoError(t, store.Save(testSession(time.Now().Add(time.Hour))))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotStored)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("access_token: [unterminated"), 0o600))

	_, err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotStored)
}

func TestMemoryStore_CopiesOnSave(t *testing.T) {
	store := NewMemoryStore()
	s := testSession(time.Now().Add(time.Hour))
	require.NoError(t, store.Save(s))

	s.Token.AccessToken = "mutated"
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", got.AccessToken())
}
