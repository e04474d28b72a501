package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studenttracker/internal/analytics"
	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// cardPad is the horizontal border plus padding RenderBox adds.
const cardPad = 6

// FormatEntryCard renders one entry as a bordered card with its date,
// productivity badge, feedback and blockers.
func FormatEntryCard(e domain.LogEntry, loc analytics.Localizer, width int) string {
	textW := max(width-cardPad, 20)

	var b strings.Builder
	b.WriteString(Bold(loc.Date(e.Timestamp)))
	b.WriteString("  ")
	b.WriteString(ProductivityBadge(e.Productivity))
	b.WriteString("\n\n")
	b.WriteString(StyleHeader.Render("Feedback"))
	b.WriteString("\n")
	b.WriteString(StyleFg.Render(wrapText(e.Feedback, textW)))
	b.WriteString("\n\n")
	b.WriteString(StyleHeader.Render("Blockers"))
	b.WriteString("\n")
	if strings.TrimSpace(e.Blockers) == "" {
		b.WriteString(Dim("None"))
	} else {
		b.WriteString(StyleFg.Render(wrapText(e.Blockers, textW)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ProductivityColor(e.Productivity)).
		Padding(0, 2).
		Width(max(width-2, textW+4)).
		Render(b.String())
}

// FormatEntryCards renders every entry as a card in the order given, which
// is oldest first for a Summary.
func FormatEntryCards(entries []domain.LogEntry, loc analytics.Localizer, width int) string {
	cards := make([]string, 0, len(entries))
	for _, e := range entries {
		cards = append(cards, FormatEntryCard(e, loc, width))
	}
	return strings.Join(cards, "\n")
}

// FormatDashboard renders the Log Viewer: both charts side by side when the
// terminal is wide enough, then the entry cards. empty is shown in place of
// the cards when there are no entries.
func FormatDashboard(s analytics.Summary, loc analytics.Localizer, width int, empty string) string {
	if width <= 0 {
		width = 80
	}

	dist := FormatDistribution(s.Distribution, 16)
	var charts string
	if width >= 100 {
		trendW := width - lipgloss.Width(dist) - 4
		charts = lipgloss.JoinHorizontal(lipgloss.Top, dist, "    ", FormatTrend(s.Trend, trendW))
	} else {
		charts = dist + "\n\n" + FormatTrend(s.Trend, width)
	}

	var b strings.Builder
	b.WriteString(charts)
	b.WriteString("\n\n")
	b.WriteString(Header(fmt.Sprintf("Entries (%d)", len(s.Entries))))
	b.WriteString("\n")
	if s.Empty() {
		b.WriteString(Dim(empty))
		return b.String()
	}
	b.WriteString(FormatEntryCards(s.Entries, loc, min(width, 100)))
	return b.String()
}

// FormatLogTable renders entries as a compact table, oldest first.
func FormatLogTable(entries []domain.LogEntry, loc analytics.Localizer) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		blockers := e.Blockers
		if strings.TrimSpace(blockers) == "" {
			blockers = Dim("-")
		} else {
			blockers = Truncate(blockers, 30)
		}
		rows = append(rows, []string{
			TruncID(e.ID),
			loc.Date(e.Timestamp),
			ProductivityStyle(e.Productivity).Render(e.Productivity.Label()),
			Truncate(e.Feedback, 40),
			blockers,
		})
	}
	return RenderTable([]string{"ID", "DATE", "PRODUCTIVITY", "FEEDBACK", "BLOCKERS"}, rows)
}

// FormatCreated renders the confirmation shown after a submission.
func FormatCreated(e *domain.LogEntry, loc analytics.Localizer) string {
	return fmt.Sprintf("%s %s %s  %s",
		StyleGreen.Render("✔"),
		"Log entry created for",
		Bold(loc.Date(e.Timestamp)),
		ProductivityBadge(e.Productivity),
	)
}
