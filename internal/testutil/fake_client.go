package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/session"
	"github.com/google/uuid"
)

// FakeLogsClient is an in-memory api.Client. Created entries are appended
// to Logs so a following ListLogs returns them.
type FakeLogsClient struct {
	mu sync.Mutex

	Logs      []domain.LogEntry
	ListErr   error
	CreateErr error

	ListCalls   int
	CreateCalls int
	Submitted   []domain.NewLogEntry
	Tokens      []string
}

func (f *FakeLogsClient) ListLogs(ctx context.Context, s *session.Session) ([]domain.LogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	f.Tokens = append(f.Tokens, s.AccessToken())
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]domain.LogEntry, len(f.Logs))
	copy(out, f.Logs)
	return out, nil
}

func (f *FakeLogsClient) CreateLog(ctx context.Context, s *session.Session, entry domain.NewLogEntry) (*domain.LogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.Submitted = append(f.Submitted, entry)
	f.Tokens = append(f.Tokens, s.AccessToken())
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	created := domain.LogEntry{
		ID:           uuid.New().String(),
		UserID:       s.UserID,
		Timestamp:    time.Now().UTC(),
		Productivity: entry.Productivity,
		Feedback:     entry.Feedback,
		Blockers:     entry.Blockers,
	}
	f.Logs = append(f.Logs, created)
	return &created, nil
}

// SignedIn returns a StaticProvider holding a valid session.
func SignedIn(email string) *session.StaticProvider {
	return &session.StaticProvider{Session: NewTestSession(email)}
}
