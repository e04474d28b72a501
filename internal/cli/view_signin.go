package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/studenttracker/internal/cli/formatter"
	"github.com/alexanderramin/studenttracker/internal/session"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// authResultMsg carries the outcome of a sign-in or sign-up attempt.
type authResultMsg struct {
	session *session.Session
	err     error
}

// signInView is the session gate. It blocks the routed views until the
// provider accepts credentials.
type signInView struct {
	state   *SharedState
	fields  *authFields
	form    embeddedForm
	spinner spinner.Model
	busy    bool
	err     string
}

// newSignInView builds the gate. notice is shown above the form, e.g. why
// the previous session could not be used.
func newSignInView(state *SharedState, notice string) *signInView {
	f := &authFields{mode: modeSignIn}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple
	return &signInView{
		state:   state,
		fields:  f,
		form:    newEmbeddedForm(func() *huh.Form { return signInForm(f, state.Width) }),
		spinner: sp,
		err:     notice,
	}
}

func (v *signInView) ID() ViewID    { return ViewSignIn }
func (v *signInView) Title() string { return "Sign In" }

func (v *signInView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (v *signInView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *signInView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		v.busy = false
		if msg.err != nil {
			v.err = authFailureMessage(msg.err)
			v.fields.password = ""
			v.fields.confirm = ""
			return v, v.form.reset()
		}
		v.err = ""
		s := msg.session
		return v, func() tea.Msg { return signedInMsg{session: s} }

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	if v.busy {
		return v, nil
	}

	cmd, completed := v.form.update(msg)
	if completed {
		v.busy = true
		return v, tea.Batch(cmd, v.submit(), v.spinner.Tick)
	}
	return v, cmd
}

// submit runs the provider call for the chosen mode.
func (v *signInView) submit() tea.Cmd {
	provider := v.state.App.Sessions
	mode := v.fields.mode
	email := strings.TrimSpace(v.fields.email)
	password := v.fields.password

	return func() tea.Msg {
		ctx := context.Background()
		var (
			s   *session.Session
			err error
		)
		if mode == modeSignUp {
			s, err = provider.SignUp(ctx, email, password)
		} else {
			s, err = provider.SignIn(ctx, email, password)
		}
		return authResultMsg{session: s, err: err}
	}
}

func (v *signInView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	if v.err != "" {
		b.WriteString("  " + formatter.ErrorText(v.err) + "\n\n")
	}
	if v.busy {
		verb := "Signing in"
		if v.fields.mode == modeSignUp {
			verb = "Creating your account"
		}
		b.WriteString("  " + v.spinner.View() + " " + formatter.Dim(verb+"…"))
		return b.String()
	}
	b.WriteString(v.form.View())
	return b.String()
}
