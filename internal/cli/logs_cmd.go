package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/studenttracker/internal/app"
	"github.com/alexanderramin/studenttracker/internal/cli/formatter"
	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/spf13/cobra"
)

func newLogsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List and add productivity log entries",
	}
	cmd.AddCommand(newLogsListCmd(a), newLogsAddCmd(a))
	return cmd
}

// logsJSON is the --json output shape.
type logsJSON struct {
	Email string            `json:"email"`
	Logs  []domain.LogEntry `json:"logs"`
	Stats logsStatsJSON     `json:"stats"`
}

type logsStatsJSON struct {
	Distribution map[domain.Productivity]int `json:"distribution"`
	Unrecognized int                         `json:"unrecognized"`
}

func newLogsListCmd(a *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show your log entries with the distribution and trend charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			stop := startSpinner(a, !asJSON, "Loading your logs…")
			d, err := a.Dashboard.Load(cmd.Context())
			stop()
			if err != nil {
				return errors.New(app.ViewerMessage(err))
			}

			if asJSON {
				return writeLogsJSON(out, d)
			}

			fmt.Fprintln(out, formatter.FormatDistribution(d.Summary.Distribution, 20))
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.FormatTrend(d.Summary.Trend, 80))
			fmt.Fprintln(out)
			if d.Empty() {
				fmt.Fprintln(out, formatter.Dim(app.MsgNoLogs))
				return nil
			}
			fmt.Fprint(out, formatter.FormatLogTable(d.Summary.Entries, a.Localizer))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON, oldest first")
	return cmd
}

func writeLogsJSON(w io.Writer, d *app.Dashboard) error {
	payload := logsJSON{
		Email: d.Email,
		Logs:  d.Summary.Entries,
		Stats: logsStatsJSON{
			Distribution: make(map[domain.Productivity]int, len(d.Summary.Distribution.Slices)),
			Unrecognized: d.Summary.Distribution.Unrecognized,
		},
	}
	if payload.Logs == nil {
		payload.Logs = []domain.LogEntry{}
	}
	for _, s := range d.Summary.Distribution.Slices {
		payload.Stats.Distribution[s.Productivity] = s.Count
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func newLogsAddCmd(a *App) *cobra.Command {
	var productivity, feedback, blockers string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit today's productivity, feedback and blockers",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := domain.ParseProductivity(productivity)
			if err != nil {
				return errors.New("Productivity must be one of High, Medium, Low")
			}

			form := app.NewLogForm()
			form.Entry = domain.NewLogEntry{Productivity: p, Feedback: feedback, Blockers: blockers}
			if !form.Begin() {
				return errors.New("Feedback is required")
			}

			stop := startSpinner(a, true, "Saving your log entry…")
			created, err := a.Submit.Submit(cmd.Context(), form.Entry)
			stop()
			if _, ok := form.Finish(err); !ok {
				if form.Retry {
					return fmt.Errorf("%s (run \"studenttracker signin\" and try again)", form.Error)
				}
				return errors.New(form.Error)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCreated(created, a.Localizer))
			return nil
		},
	}

	cmd.Flags().StringVar(&productivity, "productivity", string(domain.ProductivityMedium), "High, Medium or Low")
	cmd.Flags().StringVar(&feedback, "feedback", "", "How the day went (required)")
	cmd.Flags().StringVar(&blockers, "blockers", "", "What got in the way")
	return cmd
}

// startSpinner animates on stderr while a terminal command waits on the
// network. It returns a no-op when not interactive.
func startSpinner(a *App, enabled bool, message string) func() {
	if !enabled || !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(os.Stderr, message)
}
