package app

import (
	"context"

	"github.com/alexanderramin/studenttracker/internal/api"
	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/session"
)

// LogForm is the Log Submitter's form state.
type LogForm struct {
	Entry    domain.NewLogEntry
	InFlight bool
	Error    string
	Retry    bool
}

// NewLogForm returns a form with Medium productivity and empty text.
func NewLogForm() *LogForm {
	return &LogForm{Entry: domain.DefaultNewLogEntry()}
}

// CanSubmit is false while a request is in flight or feedback is blank.
func (f *LogForm) CanSubmit() bool {
	return !f.InFlight && f.Entry.HasFeedback()
}

// Begin marks the form in flight and clears the previous outcome. It
// returns false when submission is not allowed.
func (f *LogForm) Begin() bool {
	if !f.CanSubmit() {
		return false
	}
	f.InFlight = true
	f.Error = ""
	f.Retry = false
	return true
}

// Finish records the outcome of a submission and returns the route to go
// to on success.
func (f *LogForm) Finish(err error) (Route, bool) {
	f.InFlight = false
	if err != nil {
		f.Error, f.Retry = SubmitMessage(err)
		return "", false
	}
	return RouteDashboard, true
}

// SubmitService performs check-session, validate, create.
type SubmitService struct {
	provider session.Provider
	client   api.Client
}

func NewSubmitService(provider session.Provider, client api.Client) *SubmitService {
	return &SubmitService{provider: provider, client: client}
}

func (s *SubmitService) Submit(ctx context.Context, entry domain.NewLogEntry) (*domain.LogEntry, error) {
	sess, err := s.provider.Current(ctx)
	if err != nil {
		if domain.KindOf(err) == domain.KindSessionMissing {
			return nil, err
		}
		return nil, &authError{err: err}
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return s.client.CreateLog(ctx, sess, entry)
}

var _ SubmitLogUseCase = (*SubmitService)(nil)
