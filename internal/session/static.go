package session

import (
	"context"
	"sync"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

// StaticProvider is a Provider with a fixed outcome, for tests and demos.
// With neither Session nor Err set, Current reports a missing session.
type StaticProvider struct {
	mu      sync.Mutex
	Session *Session
	Err     error

	CurrentCalls int
	SignOuts     int
}

func (p *StaticProvider) Current(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CurrentCalls++
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Session == nil {
		return nil, domain.SessionMissing(nil)
	}
	return p.Session, nil
}

func (p *StaticProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Session == nil {
		p.Session = &Session{Email: email, UserID: "static-user"}
	}
	return p.Session, nil
}

func (p *StaticProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return p.SignIn(ctx, email, password)
}

func (p *StaticProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SignOuts++
	p.Session = nil
	return nil
}

// Calls returns how many times Current was invoked.
func (p *StaticProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.CurrentCalls
}
