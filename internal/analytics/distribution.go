package analytics

import (
	"fmt"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

// Color is an RGB chart color.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA returns the color as a CSS rgba() string with the given alpha.
func (c Color) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, alpha)
}

// Fixed category colors. Unknown levels get a neutral grey.
var (
	ColorHigh    = Color{75, 192, 192}
	ColorMedium  = Color{255, 206, 86}
	ColorLow     = Color{255, 99, 132}
	ColorUnknown = Color{146, 131, 116}
)

// CategoryColor returns the chart color for p.
func CategoryColor(p domain.Productivity) Color {
	switch p {
	case domain.ProductivityHigh:
		return ColorHigh
	case domain.ProductivityMedium:
		return ColorMedium
	case domain.ProductivityLow:
		return ColorLow
	}
	return ColorUnknown
}

// Slice is one category of the distribution chart.
type Slice struct {
	Productivity domain.Productivity
	Count        int
	Color        Color
}

// Share returns the slice's fraction of total, or 0 for an empty chart.
func (s Slice) Share(total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(s.Count) / float64(total)
}

// Distribution counts entries per productivity level. Slices always holds
// High, Medium, Low in that order. Entries with any other value are counted
// in Unrecognized and kept out of the slices.
type Distribution struct {
	Slices       []Slice
	Unrecognized int
}

// Total returns the number of entries represented in the slices.
func (d Distribution) Total() int {
	n := 0
	for _, s := range d.Slices {
		n += s.Count
	}
	return n
}

// Count returns the count for p, or 0 if p is not a known level.
func (d Distribution) Count(p domain.Productivity) int {
	for _, s := range d.Slices {
		if s.Productivity == p {
			return s.Count
		}
	}
	return 0
}

// Distribute builds the distribution chart data for entries.
func Distribute(entries []domain.LogEntry) Distribution {
	levels := domain.AllProductivities()
	d := Distribution{Slices: make([]Slice, len(levels))}
	index := make(map[domain.Productivity]int, len(levels))
	for i, p := range levels {
		d.Slices[i] = Slice{Productivity: p, Color: CategoryColor(p)}
		index[p] = i
	}

	for _, e := range entries {
		i, ok := index[e.Productivity]
		if !ok {
			d.Unrecognized++
			continue
		}
		d.Slices[i].Count++
	}
	return d
}
