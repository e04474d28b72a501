package cli

import (
	"context"

	"github.com/alexanderramin/studenttracker/internal/app"
	"github.com/alexanderramin/studenttracker/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// sessionCheckedMsg carries the outcome of the session gate's check.
type sessionCheckedMsg struct {
	session *session.Session
	err     error
}

// signedInMsg is sent by the sign-in view once credentials are accepted.
type signedInMsg struct {
	session *session.Session
}

// signedOutMsg is sent after the provider has forgotten the session.
type signedOutMsg struct {
	err error
}

// navigateMsg replaces the routed view.
type navigateMsg struct {
	route app.Route
	flash string
}

// reloadMsg re-runs the session gate and reopens the current route.
type reloadMsg struct{}

// navigate returns a tea.Cmd that switches to route, optionally showing
// flash above the new view.
func navigate(route app.Route, flash string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: route, flash: flash} }
}

// reload returns a tea.Cmd that re-runs the session gate.
func reload() tea.Cmd {
	return func() tea.Msg { return reloadMsg{} }
}

// checkSessionCmd asks the provider for the current session.
func checkSessionCmd(provider session.Provider) tea.Cmd {
	return func() tea.Msg {
		s, err := provider.Current(context.Background())
		return sessionCheckedMsg{session: s, err: err}
	}
}

// signOutCmd discards the session.
func signOutCmd(provider session.Provider) tea.Cmd {
	return func() tea.Msg {
		return signedOutMsg{err: provider.SignOut(context.Background())}
	}
}
