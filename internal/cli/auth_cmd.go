package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/studenttracker/internal/cli/formatter"
	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/session"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// credentials are the sign-in and sign-up inputs.
type credentials struct {
	email    string
	password string
}

func (c *credentials) bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "Account email")
	fs.StringVar(&c.password, "password", "", "Account password (prompted when omitted on a terminal)")
}

// complete prompts for missing values on a terminal and fails otherwise.
func (c *credentials) complete(a *App, confirm bool) error {
	if c.email != "" && c.password != "" {
		return nil
	}
	if !a.interactive() {
		return errors.New("--email and --password are required")
	}
	form := credentialsForm(&c.email, &c.password, confirm)
	if err := form.Run(); err != nil {
		return err
	}
	return nil
}

// credentialsForm builds the standalone prompt used outside the TUI.
func credentialsForm(email, password *string, confirm bool) *huh.Form {
	var repeat string
	fields := []huh.Field{
		huh.NewInput().Title("Email").Value(email).Validate(validateEmail),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password).Validate(requireValue("Password")),
	}
	if confirm {
		fields = append(fields, huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&repeat).
			Validate(func(s string) error {
				if s != *password {
					return errors.New("Passwords do not match")
				}
				return nil
			}))
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(studentTrackerHuhTheme())
}

func newSignUpCmd(a *App) *cobra.Command {
	var c credentials
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.complete(a, true); err != nil {
				return err
			}
			s, err := a.Sessions.SignUp(cmd.Context(), c.email, c.password)
			if err != nil {
				return errors.New(authFailureMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Account created. Signed in as %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(s.Email))
			return nil
		},
	}
	c.bind(cmd.Flags())
	return cmd
}

func newSignInCmd(a *App) *cobra.Command {
	var c credentials
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.complete(a, false); err != nil {
				return err
			}
			s, err := a.Sessions.SignIn(cmd.Context(), c.email, c.password)
			if err != nil {
				return errors.New(authFailureMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Signed in as %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(s.Email))
			return nil
		},
	}
	c.bind(cmd.Flags())
	return cmd
}

func newSignOutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Sessions.SignOut(cmd.Context()); err != nil {
				return fmt.Errorf("signing out: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoAmICmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := currentSession(cmd.Context(), a)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", formatter.Dim("Email:  "), formatter.Bold(s.Email))
			fmt.Fprintf(out, "%s %s\n", formatter.Dim("User:   "), s.UserID)
			if exp := s.Expiry(); !exp.IsZero() {
				fmt.Fprintf(out, "%s %s\n", formatter.Dim("Expires:"), exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func currentSession(ctx context.Context, a *App) (*session.Session, error) {
	s, err := a.Sessions.Current(ctx)
	if err != nil {
		if domain.KindOf(err) == domain.KindSessionMissing {
			return nil, errors.New("not signed in; run \"studenttracker signin\"")
		}
		return nil, fmt.Errorf("checking session: %w", err)
	}
	return s, nil
}

// authFailureMessage turns a sign-in or sign-up failure into one line.
func authFailureMessage(err error) string {
	if errors.Is(err, session.ErrRejected) {
		return strings.TrimPrefix(err.Error(), session.ErrRejected.Error()+": ")
	}
	return "Could not reach the sign-in service: " + err.Error()
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("Email is required")
	}
	if !strings.Contains(s, "@") {
		return errors.New("Enter a valid email address")
	}
	return nil
}

func requireValue(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
