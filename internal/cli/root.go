package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studenttracker/internal/analytics"
	"github.com/alexanderramin/studenttracker/internal/api"
	"github.com/alexanderramin/studenttracker/internal/app"
	"github.com/alexanderramin/studenttracker/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// App holds the collaborators used by CLI commands and the TUI.
type App struct {
	Sessions  session.Provider
	Logs      api.Client
	Dashboard app.DashboardUseCase
	Submit    app.SubmitLogUseCase
	Localizer analytics.Localizer

	// Serve runs the API service until ctx is done. Nil disables "serve".
	Serve func(ctx context.Context) error

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// RunTUI runs the bubbletea program; tests replace it.
	RunTUI func(m tea.Model) error
}

// NewApp wires the use cases from a provider and a data client.
func NewApp(provider session.Provider, client api.Client, loc analytics.Localizer) *App {
	return &App{
		Sessions:  provider,
		Logs:      client,
		Dashboard: app.NewDashboardService(provider, client, loc),
		Submit:    app.NewSubmitService(provider, client),
		Localizer: loc,
	}
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "studenttracker" command and registers
// all subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	var route string

	root := &cobra.Command{
		Use:           "studenttracker",
		Short:         "Daily productivity log for students",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				return cmd.Help()
			}
			return runTUI(a, app.ResolveRoute(route))
		},
	}

	root.Flags().StringVar(&route, "route", "/", "Start at a route: /, /dashboard or /log")

	root.AddCommand(
		newSignUpCmd(a),
		newSignInCmd(a),
		newSignOutCmd(a),
		newWhoAmICmd(a),
		newLogsCmd(a),
		newServeCmd(a),
	)

	return root
}

func runTUI(a *App, route app.Route) error {
	m := newAppModel(a, route)
	if a.RunTUI != nil {
		return a.RunTUI(m)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}

func newServeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the identity and log API service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Serve == nil {
				return fmt.Errorf("serve is not available in this build")
			}
			return a.Serve(cmd.Context())
		},
	}
}
