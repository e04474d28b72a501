package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/studenttracker/internal/db"
	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

// TestPassword is the plaintext behind users built by NewTestUser.
const TestPassword = "correct-horse-battery"

// User options
type UserOption func(*domain.User)

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func WithPassword(password string) UserOption {
	return func(u *domain.User) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		u.PasswordHash = string(hash)
	}
}

func NewTestUser(opts ...UserOption) *domain.User {
	id := uuid.New().String()
	u := &domain.User{
		ID:        id,
		Email:     "student-" + id[:8] + "@example.edu",
		CreatedAt: time.Now().UTC(),
	}
	WithPassword(TestPassword)(u)
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// LogEntry options
type LogEntryOption func(*domain.LogEntry)

func WithProductivity(p domain.Productivity) LogEntryOption {
	return func(e *domain.LogEntry) {
		e.Productivity = p
	}
}

func WithFeedback(f string) LogEntryOption {
	return func(e *domain.LogEntry) {
		e.Feedback = f
	}
}

func WithBlockers(b string) LogEntryOption {
	return func(e *domain.LogEntry) {
		e.Blockers = b
	}
}

func WithTimestamp(t time.Time) LogEntryOption {
	return func(e *domain.LogEntry) {
		e.Timestamp = t
	}
}

func NewTestLogEntry(userID string, opts ...LogEntryOption) *domain.LogEntry {
	e := &domain.LogEntry{
		ID:           uuid.New().String(),
		UserID:       userID,
		Timestamp:    time.Now().UTC(),
		Productivity: domain.ProductivityMedium,
		Feedback:     "worked through the problem set",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SeedUser inserts u directly, bypassing any service validation.
func SeedUser(t *testing.T, dbtx db.DBTX, u *domain.User) {
	t.Helper()
	_, err := dbtx.ExecContext(context.Background(),
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"))
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}
}

// NewTestSession returns a session whose access token is valid for an hour.
func NewTestSession(email string) *session.Session {
	return &session.Session{
		Token: &oauth2.Token{
			AccessToken:  "test-access-" + uuid.New().String()[:8],
			TokenType:    "Bearer",
			RefreshToken: "test-refresh",
			Expiry:       time.Now().Add(time.Hour),
		},
		UserID: "test-user",
		Email:  email,
	}
}
