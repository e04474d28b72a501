package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/studenttracker/internal/cli/formatter"
	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// studentTrackerHuhTheme returns a custom huh theme using the Gruvbox palette.
func studentTrackerHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// authMode selects between signing in and creating an account.
type authMode string

const (
	modeSignIn authMode = "signin"
	modeSignUp authMode = "signup"
)

// authFields are the values bound to the sign-in form.
type authFields struct {
	mode     authMode
	email    string
	password string
	confirm  string
}

// signInForm builds the session gate form. The confirmation group is only
// shown when creating an account.
func signInForm(f *authFields, width int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[authMode]().
				Title("Welcome to Student Tracker").
				Options(
					huh.NewOption("Sign in", modeSignIn),
					huh.NewOption("Create an account", modeSignUp),
				).
				Value(&f.mode),
			huh.NewInput().
				Title("Email").
				Value(&f.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(requireValue("Password")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&f.confirm).
				Validate(func(s string) error {
					if s != f.password {
						return errors.New("Passwords do not match")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return f.mode != modeSignUp }),
	).WithTheme(studentTrackerHuhTheme()).WithShowHelp(false).WithWidth(formWidth(width))
}

// logEntryForm builds the Log Submitter form bound to entry.
func logEntryForm(entry *domain.NewLogEntry, width int) *huh.Form {
	options := make([]huh.Option[domain.Productivity], 0, 3)
	for _, p := range domain.AllProductivities() {
		options = append(options, huh.NewOption(p.Label(), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.Productivity]().
				Title("Productivity").
				Description("How productive was today?").
				Options(options...).
				Value(&entry.Productivity),
			huh.NewText().
				Title("Feedback").
				Description("What did you work on?").
				Value(&entry.Feedback).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("Feedback is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Blockers").
				Description("Anything that got in the way? (optional)").
				Value(&entry.Blockers),
		),
	).WithTheme(studentTrackerHuhTheme()).WithShowHelp(false).WithWidth(formWidth(width))
}

func formWidth(width int) int {
	if width <= 0 {
		return 60
	}
	return max(min(width-4, 80), 20)
}
