package cli

import (
	"context"

	"github.com/alexanderramin/studenttracker/internal/app"
	"github.com/alexanderramin/studenttracker/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ── messages ─────────────────────────────────────────────────────────────────

// dashboardLoadedMsg signals that dashboard data has been loaded.
type dashboardLoadedMsg struct {
	data *app.Dashboard
	err  error
}

// ── view ─────────────────────────────────────────────────────────────────────

// dashboardView is the Log Viewer: distribution and trend charts followed
// by one card per entry. Every load re-checks the session.
type dashboardView struct {
	state   *SharedState
	data    *app.Dashboard
	loading bool
	err     error

	spinner spinner.Model
	vp      viewport.Model
}

func newDashboardView(state *SharedState) *dashboardView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple

	vp := viewport.New(state.Width, state.ContentHeight())
	vp.KeyMap = dashboardViewportKeyMap()

	return &dashboardView{
		state:   state,
		loading: true,
		spinner: sp,
		vp:      vp,
	}
}

func (v *dashboardView) ID() ViewID    { return ViewDashboard }
func (v *dashboardView) Title() string { return app.RouteDashboard.Title() }

func (v *dashboardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
	}
}

func (v *dashboardView) Init() tea.Cmd {
	return tea.Batch(v.loadData(), v.spinner.Tick)
}

// ── data loading ─────────────────────────────────────────────────────────────

func (v *dashboardView) loadData() tea.Cmd {
	uc := v.state.App.Dashboard
	return func() tea.Msg {
		d, err := uc.Load(context.Background())
		return dashboardLoadedMsg{data: d, err: err}
	}
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		v.loading = false
		v.data = msg.data
		v.err = msg.err
		v.render()
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		v.render()
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			if v.loading {
				return v, nil
			}
			v.loading = true
			return v, tea.Batch(v.loadData(), v.spinner.Tick)
		}
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	}
	return v, nil
}

// render refreshes the viewport content from the loaded data.
func (v *dashboardView) render() {
	if v.data == nil {
		return
	}
	v.vp.SetContent(formatter.FormatDashboard(v.data.Summary, v.state.App.Localizer, v.state.Width, app.MsgNoLogs))
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *dashboardView) View() string {
	switch {
	case v.loading && v.data == nil:
		return "\n  " + v.spinner.View() + " " + formatter.Dim("Loading your logs…")
	case v.err != nil:
		return "\n  " + formatter.ErrorText(app.ViewerMessage(v.err)) + "\n\n  " + formatter.Dim("Press r to try again.")
	case v.data == nil:
		return ""
	}
	if v.loading {
		return v.vp.View() + "\n" + v.spinner.View() + " " + formatter.Dim("Refreshing…")
	}
	return v.vp.View()
}

// dashboardViewportKeyMap leaves letter keys free for the shell shortcuts.
func dashboardViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
}
