package domain

import (
	"errors"
	"fmt"
)

// Kind discriminates the failures a view has to tell apart.
type Kind int

const (
	KindUnknown Kind = iota
	KindSessionMissing
	KindMalformedResponse
	KindNetworkFailure
	KindServerReported
	KindLocalValidation
)

func (k Kind) String() string {
	switch k {
	case KindSessionMissing:
		return "session_missing"
	case KindMalformedResponse:
		return "malformed_response"
	case KindNetworkFailure:
		return "network_failure"
	case KindServerReported:
		return "server_reported"
	case KindLocalValidation:
		return "local_validation"
	default:
		return "unknown"
	}
}

// ServerErrorBody is the JSON error document returned by the API.
type ServerErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error is a failure tagged with its Kind. Status and Body are set for
// errors that came back from the server.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Body    *ServerErrorBody
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Body != nil {
		msg = e.Body.Error
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	// ErrNoCurrentSession indicates there is no signed-in user, or the stored
	// credentials can no longer be refreshed.
	ErrNoCurrentSession = &Error{Kind: KindSessionMissing, Message: "no current session"}

	// ErrMalformedResponse indicates the server answered with a body that
	// does not match the expected shape.
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse, Message: "Invalid response format from server"}

	// ErrNetwork indicates the request never produced an HTTP response.
	ErrNetwork = &Error{Kind: KindNetworkFailure, Message: "network error"}

	// ErrServer indicates the server returned a non-success status.
	ErrServer = &Error{Kind: KindServerReported, Message: "server error"}

	// ErrValidation indicates the input was rejected before any request.
	ErrValidation = &Error{Kind: KindLocalValidation, Message: "validation failed"}
)

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// SessionMissing wraps cause as a KindSessionMissing error.
func SessionMissing(cause error) *Error {
	return &Error{Kind: KindSessionMissing, Message: ErrNoCurrentSession.Message, Err: cause}
}
