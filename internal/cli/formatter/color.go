package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studenttracker/internal/analytics"
	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ProductivityColor returns the chart color of a level as a lipgloss color.
// Unknown levels use the dim color.
func ProductivityColor(p domain.Productivity) lipgloss.Color {
	if !p.Valid() {
		return ColorDim
	}
	return lipgloss.Color(analytics.CategoryColor(p).Hex())
}

// ProductivityStyle returns the foreground style for a level.
func ProductivityStyle(p domain.Productivity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ProductivityColor(p))
}

// ProductivityBadge returns a colored badge such as "● HIGH".
func ProductivityBadge(p domain.Productivity) string {
	return ProductivityStyle(p).Bold(p.Valid()).Render("● " + strings.ToUpper(p.Label()))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// ErrorText renders a user-facing failure message.
func ErrorText(text string) string {
	return StyleRed.Render(text)
}
