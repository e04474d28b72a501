package domain

import (
	"strings"
	"time"
)

// LogEntry is one recorded day of productivity, feedback and blockers.
// Entries are immutable once created.
type LogEntry struct {
	ID           string       `json:"id,omitempty"`
	UserID       string       `json:"-"`
	Timestamp    time.Time    `json:"timestamp"`
	Productivity Productivity `json:"productivity"`
	Feedback     string       `json:"feedback"`
	Blockers     string       `json:"blockers"`
}

// NewLogEntry is the payload a user submits; the server assigns the rest.
type NewLogEntry struct {
	Productivity Productivity `json:"productivity"`
	Feedback     string       `json:"feedback"`
	Blockers     string       `json:"blockers"`
}

// Feedback validation message shown to users.
const msgFeedbackRequired = "Feedback is required"

// DefaultNewLogEntry returns the initial form values.
func DefaultNewLogEntry() NewLogEntry {
	return NewLogEntry{Productivity: ProductivityMedium}
}

// HasFeedback reports whether feedback is non-empty after trimming.
func (n NewLogEntry) HasFeedback() bool {
	return strings.TrimSpace(n.Feedback) != ""
}

// Validate checks the submission locally. Errors are KindLocalValidation.
func (n NewLogEntry) Validate() error {
	if !n.HasFeedback() {
		return &Error{Kind: KindLocalValidation, Message: msgFeedbackRequired}
	}
	if !n.Productivity.Valid() {
		return &Error{Kind: KindLocalValidation, Message: "Invalid productivity level", Err: ErrUnknownProductivity}
	}
	return nil
}
