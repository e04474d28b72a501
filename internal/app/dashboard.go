package app

import (
	"context"

	"github.com/alexanderramin/studenttracker/internal/analytics"
	"github.com/alexanderramin/studenttracker/internal/api"
	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/session"
)

// Dashboard is the loaded Log Viewer state.
type Dashboard struct {
	Email   string
	Summary analytics.Summary
}

// Empty reports whether the user has no entries yet.
func (d *Dashboard) Empty() bool {
	return d == nil || d.Summary.Empty()
}

// DashboardService checks the session, fetches the user's entries and
// derives the charts. It holds no state between loads.
type DashboardService struct {
	provider session.Provider
	client   api.Client
	loc      analytics.Localizer
}

func NewDashboardService(provider session.Provider, client api.Client, loc analytics.Localizer) *DashboardService {
	return &DashboardService{provider: provider, client: client, loc: loc}
}

// Load runs one check-session then fetch sequence. No data call is made
// when the session check fails.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	sess, err := s.provider.Current(ctx)
	if err != nil {
		if domain.KindOf(err) == domain.KindSessionMissing {
			return nil, err
		}
		return nil, &authError{err: err}
	}

	entries, err := s.client.ListLogs(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Email:   sess.Email,
		Summary: analytics.Summarize(entries, s.loc),
	}, nil
}

var _ DashboardUseCase = (*DashboardService)(nil)
