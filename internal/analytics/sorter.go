package analytics

import (
	"sort"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

// SortByTimestamp returns a copy of entries ordered oldest first.
// Entries with equal timestamps keep their input order.
func SortByTimestamp(entries []domain.LogEntry) []domain.LogEntry {
	sorted := make([]domain.LogEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
