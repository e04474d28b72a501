package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Productivity is the self-reported productivity level of a log entry.
type Productivity string

const (
	ProductivityHigh   Productivity = "High"
	ProductivityMedium Productivity = "Medium"
	ProductivityLow    Productivity = "Low"
)

// ErrUnknownProductivity is returned when a value outside High/Medium/Low
// is parsed.
var ErrUnknownProductivity = errors.New("productivity must be one of High, Medium, Low")

// AllProductivities returns the levels in chart order.
func AllProductivities() []Productivity {
	return []Productivity{ProductivityHigh, ProductivityMedium, ProductivityLow}
}

// ParseProductivity accepts the exact level names, ignoring surrounding
// whitespace. Matching is case-sensitive to stay compatible with the stored
// wire values.
func ParseProductivity(s string) (Productivity, error) {
	p := Productivity(strings.TrimSpace(s))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProductivity, s)
	}
	return p, nil
}

// Valid reports whether p is one of the three known levels.
func (p Productivity) Valid() bool {
	switch p {
	case ProductivityHigh, ProductivityMedium, ProductivityLow:
		return true
	}
	return false
}

// Score maps a level onto the trend axis: High=3, Medium=2, Low=1.
// Unknown values score 0, which sits on the unlabeled bottom of the axis.
func (p Productivity) Score() int {
	switch p {
	case ProductivityHigh:
		return 3
	case ProductivityMedium:
		return 2
	case ProductivityLow:
		return 1
	}
	return 0
}

func (p Productivity) String() string {
	return string(p)
}

// Label is the display name; unknown values render as "Unknown".
func (p Productivity) Label() string {
	if !p.Valid() {
		return "Unknown"
	}
	return string(p)
}
