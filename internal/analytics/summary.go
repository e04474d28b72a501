package analytics

import "github.com/alexanderramin/studenttracker/internal/domain"

// Summary is everything the dashboard renders from one list response.
type Summary struct {
	Entries      []domain.LogEntry
	Distribution Distribution
	Trend        Trend
}

// Empty reports whether there are no entries to show.
func (s Summary) Empty() bool {
	return len(s.Entries) == 0
}

// Summarize sorts entries oldest first and derives both charts.
func Summarize(entries []domain.LogEntry, loc Localizer) Summary {
	sorted := SortByTimestamp(entries)
	return Summary{
		Entries:      sorted,
		Distribution: Distribute(sorted),
		Trend:        BuildTrend(sorted, loc),
	}
}
