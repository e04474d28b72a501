package analytics

import (
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

// Trend chart y-axis bounds.
const (
	AxisMin = 0
	AxisMax = 4
)

// TickLabel returns the y-axis label for a score. Only 1..3 are labeled.
func TickLabel(v int) string {
	switch v {
	case 1:
		return "Low"
	case 2:
		return "Medium"
	case 3:
		return "High"
	}
	return ""
}

// Localizer formats entry timestamps as calendar dates in a time zone.
type Localizer struct {
	Location *time.Location
	Layout   string
}

// DefaultDateLayout matches a numeric month/day/year short date.
const DefaultDateLayout = "1/2/2006"

// DefaultLocalizer formats dates in the local zone.
func DefaultLocalizer() Localizer {
	return Localizer{Location: time.Local, Layout: DefaultDateLayout}
}

// Date formats t.
func (l Localizer) Date(t time.Time) string {
	loc := l.Location
	if loc == nil {
		loc = time.Local
	}
	layout := l.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	return t.In(loc).Format(layout)
}

// Point is one value on the trend chart.
type Point struct {
	Timestamp time.Time
	Label     string
	Score     int
}

// Trend is the chronological productivity series. Entries with an
// unrecognized level are counted in Skipped rather than plotted.
type Trend struct {
	Points  []Point
	Skipped int
}

// BuildTrend maps entries to scored points. Entries must already be sorted;
// use SortByTimestamp first.
func BuildTrend(sorted []domain.LogEntry, loc Localizer) Trend {
	tr := Trend{Points: make([]Point, 0, len(sorted))}
	for _, e := range sorted {
		if !e.Productivity.Valid() {
			tr.Skipped++
			continue
		}
		tr.Points = append(tr.Points, Point{
			Timestamp: e.Timestamp,
			Label:     loc.Date(e.Timestamp),
			Score:     e.Productivity.Score(),
		})
	}
	return tr
}
