package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/repository"
	"github.com/google/uuid"
)

type logService struct {
	entries  repository.LogEntryRepo
	observer UseCaseObserver
	now      func() time.Time
}

func NewLogService(entries repository.LogEntryRepo, observers ...UseCaseObserver) LogService {
	return &logService{
		entries:  entries,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *logService) List(ctx context.Context, userID string) ([]domain.LogEntry, error) {
	return s.entries.ListByUser(ctx, userID)
}

func (s *logService) Create(ctx context.Context, userID string, in domain.NewLogEntry) (entry *domain.LogEntry, err error) {
	startedAt := s.now()
	fields := map[string]any{"user_id": userID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-log-entry",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if in.Productivity == "" || strings.TrimSpace(in.Feedback) == "" {
		return nil, ErrMissingFields
	}
	p, err := domain.ParseProductivity(string(in.Productivity))
	if err != nil {
		return nil, err
	}
	fields["productivity"] = string(p)

	entry = &domain.LogEntry{
		ID:           uuid.New().String(),
		UserID:       userID,
		Timestamp:    s.now().UTC(),
		Productivity: p,
		Feedback:     in.Feedback,
		Blockers:     in.Blockers,
	}
	if err = s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
