package app

import (
	"errors"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

// User-facing messages. Each failure class has its own string.
const (
	MsgSignInToView    = "Please sign in to view your logs"
	MsgSignInToSubmit  = "Please sign in to submit a log entry"
	MsgInvalidResponse = "Invalid response format from server"
	MsgNetwork         = "Network error. Please check your connection and try again."
	MsgFetchFallback   = "Failed to fetch logs. Please try again later."
	MsgNoLogs          = "No logs found. Start by adding your first log entry!"
	MsgSubmitFailed    = "Failed to submit log entry"
	MsgSubmitFallback  = "Failed to submit log entry. Please try again."
	authErrorPrefix    = "Authentication error: "
	serverErrorPrefix  = "Server error: "
)

// authError marks a session check that failed for a reason other than a
// missing session.
type authError struct {
	err error
}

func (e *authError) Error() string { return e.err.Error() }
func (e *authError) Unwrap() error { return e.err }

// ViewerMessage converts a dashboard load failure into the text shown to
// the user.
func ViewerMessage(err error) string {
	if err == nil {
		return ""
	}
	if domain.KindOf(err) == domain.KindSessionMissing {
		return MsgSignInToView
	}
	var ae *authError
	if errors.As(err, &ae) {
		return authErrorPrefix + ae.err.Error()
	}

	switch domain.KindOf(err) {
	case domain.KindMalformedResponse:
		return MsgInvalidResponse
	case domain.KindNetworkFailure:
		return MsgNetwork
	case domain.KindServerReported:
		return serverErrorPrefix + serverText(err)
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgFetchFallback
}

// SessionMessage converts a failed session check into the notice shown on
// the sign-in screen. A missing session needs no notice.
func SessionMessage(err error) string {
	if err == nil || domain.KindOf(err) == domain.KindSessionMissing {
		return ""
	}
	return authErrorPrefix + err.Error()
}

// SubmitMessage converts a submit failure into the text shown to the user
// and reports whether the retry affordance applies.
func SubmitMessage(err error) (msg string, retry bool) {
	if err == nil {
		return "", false
	}
	if domain.KindOf(err) == domain.KindSessionMissing {
		return MsgSignInToSubmit, true
	}
	var ae *authError
	if errors.As(err, &ae) {
		return MsgSignInToSubmit, true
	}

	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.KindLocalValidation:
			return de.Message, false
		case domain.KindServerReported:
			if de.Body != nil && de.Body.Error != "" {
				return de.Body.Error, false
			}
			if de.Body != nil && de.Body.Message != "" {
				return de.Body.Message, false
			}
			return MsgSubmitFailed, false
		}
	}
	return MsgSubmitFallback, false
}

func serverText(err error) string {
	var de *domain.Error
	if !errors.As(err, &de) {
		return err.Error()
	}
	switch {
	case de.Body != nil && de.Body.Error != "":
		return de.Body.Error
	case de.Body != nil && de.Body.Message != "":
		return de.Body.Message
	case de.Message != "":
		return de.Message
	}
	return de.Error()
}
