package cli

import (
	"strings"

	"github.com/alexanderramin/studenttracker/internal/app"
	"github.com/alexanderramin/studenttracker/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Navigation shell shortcuts.
var (
	keyDashboard = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", app.RouteDashboard.Title()))
	keyLog       = key.NewBinding(key.WithKeys("l"), key.WithHelp("l", app.RouteLog.Title()))
	keySignOut   = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Sign Out"))
	keyQuit      = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
)

// appModel is the root bubbletea Model for the TUI. It runs the session
// gate and then shows one routed view under the navigation header.
type appModel struct {
	state    *SharedState
	view     View
	checking bool
	quitting bool

	// Transient notice shown above the view until the next key press.
	flash string
}

func newAppModel(a *App, route app.Route) appModel {
	return appModel{
		state:    &SharedState{App: a, Route: route},
		checking: true,
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	return checkSessionCmd(m.state.App.Sessions)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	// Session gate
	case sessionCheckedMsg:
		m.checking = false
		if msg.err != nil {
			m.state.signOut()
			return m.show(newSignInView(m.state, app.SessionMessage(msg.err)))
		}
		m.state.signIn(msg.session.Email)
		return m.show(m.routeView(m.state.Route))

	case signedInMsg:
		m.state.signIn(msg.session.Email)
		return m.show(m.routeView(m.state.Route))

	case signedOutMsg:
		m.state.signOut()
		m.flash = "Signed out."
		if msg.err != nil {
			m.flash = formatter.ErrorText("Sign out failed: " + msg.err.Error())
		}
		return m.show(newSignInView(m.state, ""))

	case reloadMsg:
		m.checking = true
		m.view = nil
		m.flash = ""
		return m, checkSessionCmd(m.state.App.Sessions)

	case navigateMsg:
		if !m.state.Authenticated {
			return m, nil
		}
		m.state.Route = msg.route
		m.flash = msg.flash
		return m.show(m.routeView(msg.route))
	}

	return m.forward(msg)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.checking {
		return m, nil
	}

	// Views with text inputs receive every key.
	if viewCapturesInput(m.view) {
		return m.forward(msg)
	}

	m.flash = ""

	switch {
	case key.Matches(msg, keyQuit):
		m.quitting = true
		return m, tea.Quit

	case !m.state.Authenticated:
		return m.forward(msg)

	case key.Matches(msg, keyDashboard):
		return m, navigate(app.RouteDashboard, "")

	case key.Matches(msg, keyLog):
		return m, navigate(app.RouteLog, "")

	case key.Matches(msg, keySignOut):
		return m, signOutCmd(m.state.App.Sessions)
	}

	return m.forward(msg)
}

// forward passes msg to the active view.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view == nil {
		return m, nil
	}
	updated, cmd := m.view.Update(msg)
	m.view = updated.(View)
	return m, cmd
}

// show makes v the active view and starts it.
func (m appModel) show(v View) (tea.Model, tea.Cmd) {
	m.view = v
	return m, v.Init()
}

func (m appModel) routeView(route app.Route) View {
	if route == app.RouteLog {
		return newLogFormView(m.state)
	}
	return newDashboardView(m.state)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if m.flash != "" {
		sections = append(sections, "  "+m.flash)
	}

	switch {
	case m.checking:
		sections = append(sections, "\n  "+formatter.Dim("Checking your session…"))
	case m.view != nil:
		sections = append(sections, m.view.View())
	}

	top := strings.Join(sections, "\n")
	bottom := m.renderStatusBar()

	// Pad to terminal height so the status bar stays at the bottom and
	// bubbletea's line-diff renderer leaves no stale lines in alt-screen mode.
	if m.state.Height > 0 {
		used := strings.Count(top, "\n") + strings.Count(bottom, "\n") + 2
		if used < m.state.Height {
			top += strings.Repeat("\n", m.state.Height-used)
		}
	}

	return top + "\n" + bottom
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	brand := formatter.StylePurple.Bold(true).Render("Student Tracker")

	var links []string
	if m.state.Authenticated {
		active := app.Route("")
		if m.view != nil {
			switch m.view.ID() {
			case ViewDashboard:
				active = app.RouteDashboard
			case ViewLogForm:
				active = app.RouteLog
			}
		}
		links = append(links,
			navLink(keyDashboard, active == app.RouteDashboard),
			navLink(keyLog, active == app.RouteLog),
			navLink(keySignOut, false),
		)
	} else {
		links = append(links, formatter.Dim("Sign In"))
	}

	left := brand + "  " + strings.Join(links, "  ")
	right := ""
	if m.state.Email != "" {
		right = formatter.StyleGreen.Render(m.state.Email)
	}

	header := left
	if right != "" {
		gap := m.state.Width - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 2 {
			gap = 2
		}
		header += strings.Repeat(" ", gap) + right
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

// navLink renders a header link such as "[d] Dashboard".
func navLink(b key.Binding, active bool) string {
	label := formatter.Dim("["+b.Help().Key+"]") + " "
	if active {
		return label + formatter.StyleHeader.Render(b.Help().Desc)
	}
	return label + formatter.StyleFg.Render(b.Help().Desc)
}

func (m *appModel) statusSeparator() string {
	sepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(formatter.ColorDim))
	return sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if m.view != nil && !m.checking {
		for _, b := range m.view.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if !viewCapturesInput(m.view) {
		hints = append(hints, formatter.Dim(keyQuit.Help().Key+": "+keyQuit.Help().Desc))
	}

	return m.statusSeparator() + "\n" + strings.Join(hints, "  ")
}
