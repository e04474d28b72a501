package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewSignIn ViewID = iota
	ViewDashboard
	ViewLogForm
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // navigation label for this view
}

// viewCapturesInput returns true if the view has its own text inputs and
// should receive all key events, bypassing the shell shortcuts.
func viewCapturesInput(v View) bool {
	if v == nil {
		return false
	}
	switch v.ID() {
	case ViewSignIn, ViewLogForm:
		return true
	}
	return false
}
