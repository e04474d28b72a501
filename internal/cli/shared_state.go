package cli

import "github.com/alexanderramin/studenttracker/internal/app"

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Session gate state. Email is shown in the header once the gate opens.
	Authenticated bool
	Email         string

	// Route the shell shows once the gate opens.
	Route app.Route

	// Terminal dimensions
	Width  int
	Height int
}

// signIn opens the session gate for email.
func (s *SharedState) signIn(email string) {
	s.Authenticated = true
	s.Email = email
}

// signOut closes the session gate.
func (s *SharedState) signOut() {
	s.Authenticated = false
	s.Email = ""
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
