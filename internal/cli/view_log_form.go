package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/studenttracker/internal/app"
	"github.com/alexanderramin/studenttracker/internal/cli/formatter"
	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// logSubmittedMsg carries the outcome of a submission.
type logSubmittedMsg struct {
	entry *domain.LogEntry
	err   error
}

// logFormView is the Log Submitter. It keeps its values across failed
// submissions and goes to the dashboard on success.
type logFormView struct {
	state   *SharedState
	model   *app.LogForm
	form    embeddedForm
	spinner spinner.Model
}

func newLogFormView(state *SharedState) *logFormView {
	model := app.NewLogForm()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple
	return &logFormView{
		state:   state,
		model:   model,
		form:    newEmbeddedForm(func() *huh.Form { return logEntryForm(&model.Entry, state.Width) }),
		spinner: sp,
	}
}

func (v *logFormView) ID() ViewID    { return ViewLogForm }
func (v *logFormView) Title() string { return app.RouteLog.Title() }

func (v *logFormView) ShortHelp() []key.Binding {
	hints := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next / submit")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dashboard")),
	}
	if v.model.Retry {
		hints = append(hints, key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry")))
	}
	return hints
}

func (v *logFormView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *logFormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case logSubmittedMsg:
		route, ok := v.model.Finish(msg.err)
		if ok {
			flash := "Log entry saved."
			if msg.entry != nil {
				flash = formatter.FormatCreated(msg.entry, v.state.App.Localizer)
			}
			return v, navigate(route, flash)
		}
		return v, v.form.reset()

	case spinner.TickMsg:
		if !v.model.InFlight {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyEsc:
			return v, navigate(app.RouteDashboard, "")
		case msg.Type == tea.KeyCtrlR && v.model.Retry && !v.model.InFlight:
			return v, reload()
		}
	}

	if v.model.InFlight {
		return v, nil
	}

	cmd, completed := v.form.update(msg)
	if completed {
		return v, tea.Batch(cmd, v.submit())
	}
	return v, cmd
}

// submit starts a submission when the form allows it. A blocked submission
// shows the validation message and keeps the values.
func (v *logFormView) submit() tea.Cmd {
	if v.model.InFlight {
		return nil
	}
	if !v.model.Begin() {
		v.model.Error, v.model.Retry = app.SubmitMessage(v.model.Entry.Validate())
		return v.form.reset()
	}

	uc := v.state.App.Submit
	entry := v.model.Entry
	return tea.Batch(
		func() tea.Msg {
			created, err := uc.Submit(context.Background(), entry)
			return logSubmittedMsg{entry: created, err: err}
		},
		v.spinner.Tick,
	)
}

func (v *logFormView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(formatter.Header("New Log Entry") + "\n\n")
	if v.model.Error != "" {
		b.WriteString("  " + formatter.ErrorText(v.model.Error))
		if v.model.Retry {
			b.WriteString("  " + formatter.Dim("ctrl+r: retry"))
		}
		b.WriteString("\n\n")
	}
	if v.model.InFlight {
		b.WriteString("  " + v.spinner.View() + " " + formatter.Dim("Saving…"))
		return b.String()
	}
	b.WriteString(v.form.View())
	return b.String()
}
