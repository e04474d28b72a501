package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studenttracker/internal/analytics"
	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
	trendDot    = "●"

	// trendColStep is the number of cells each plotted point occupies.
	trendColStep = 3
)

// RenderBar renders a bar of width cells filled to share (clamped to [0,1]).
func RenderBar(share float64, width int, style lipgloss.Style) string {
	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(share*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return style.Render(strings.Repeat(filledBlock, filled)) + StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}

// FormatDistribution renders the per-level counts as horizontal bars in the
// fixed High, Medium, Low order. An empty distribution still renders all
// three rows at zero.
func FormatDistribution(d analytics.Distribution, barWidth int) string {
	total := d.Total()
	labelW := levelLabelWidth()

	var b strings.Builder
	b.WriteString(Header("Productivity Distribution"))
	b.WriteString("\n")
	for _, s := range d.Slices {
		label := s.Productivity.Label()
		share := s.Share(total)
		fmt.Fprintf(&b, "%s%s  %s  %s %s\n",
			ProductivityStyle(s.Productivity).Render(label),
			strings.Repeat(" ", labelW-len(label)),
			RenderBar(share, barWidth, ProductivityStyle(s.Productivity)),
			Bold(fmt.Sprintf("%3d", s.Count)),
			Dim(fmt.Sprintf("%3.0f%%", share*100)),
		)
	}
	if d.Unrecognized > 0 {
		b.WriteString(Dim(fmt.Sprintf("%d %s with an unrecognized level not shown", d.Unrecognized, plural(d.Unrecognized, "entry", "entries"))))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatTrend renders the chronological scores on a fixed 0..4 axis with
// only 1, 2 and 3 labeled. When the points do not fit in width cells the
// most recent ones are shown.
func FormatTrend(tr analytics.Trend, width int) string {
	labelW := levelLabelWidth()
	points := tr.Points

	capacity := (width - labelW - 2) / trendColStep
	if capacity < 1 {
		capacity = 1
	}
	hidden := 0
	if len(points) > capacity {
		hidden = len(points) - capacity
		points = points[hidden:]
	}
	plotW := max(len(points)*trendColStep, trendColStep)

	var b strings.Builder
	b.WriteString(Header("Productivity Trend"))
	b.WriteString("\n")

	for v := analytics.AxisMax; v > analytics.AxisMin; v-- {
		label := analytics.TickLabel(v)
		tick := "│"
		if label != "" {
			tick = "┤"
		}
		b.WriteString(strings.Repeat(" ", labelW-len(label)))
		b.WriteString(Dim(label + " " + tick))

		var row strings.Builder
		for _, p := range points {
			if p.Score == v {
				row.WriteString(" " + ProductivityStyle(levelForScore(v)).Render(trendDot) + " ")
			} else {
				row.WriteString("   ")
			}
		}
		b.WriteString(strings.TrimRight(row.String(), " "))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", labelW+1))
	b.WriteString(Dim("└" + strings.Repeat("─", plotW)))
	b.WriteString("\n")

	switch len(points) {
	case 0:
		b.WriteString(strings.Repeat(" ", labelW+2))
		b.WriteString(Dim("no data"))
	case 1:
		b.WriteString(strings.Repeat(" ", labelW+2))
		b.WriteString(Dim(points[0].Label))
	default:
		first, last := points[0].Label, points[len(points)-1].Label
		gap := max(plotW-len(first)-len(last), 1)
		b.WriteString(strings.Repeat(" ", labelW+2))
		b.WriteString(Dim(first + strings.Repeat(" ", gap) + last))
	}

	if hidden > 0 {
		b.WriteString("\n")
		b.WriteString(Dim(fmt.Sprintf("showing the last %d of %d entries", len(points), len(tr.Points))))
	}
	if tr.Skipped > 0 {
		b.WriteString("\n")
		b.WriteString(Dim(fmt.Sprintf("%d %s with an unrecognized level skipped", tr.Skipped, plural(tr.Skipped, "entry", "entries"))))
	}
	return b.String()
}

func levelForScore(v int) domain.Productivity {
	for _, p := range domain.AllProductivities() {
		if p.Score() == v {
			return p
		}
	}
	return ""
}

func levelLabelWidth() int {
	w := 0
	for _, p := range domain.AllProductivities() {
		w = max(w, len(p.Label()))
	}
	return w
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
