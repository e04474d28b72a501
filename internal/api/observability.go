package api

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

// CallEvent records metadata about a single data API call.
type CallEvent struct {
	Method  string
	Path    string
	Status  int
	Latency time.Duration
	Kind    domain.Kind // KindUnknown on success
	Err     error
}

// Observer receives events about data API calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	attrs := []any{
		"method", e.Method,
		"path", e.Path,
		"status", e.Status,
		"latency_ms", e.Latency.Milliseconds(),
	}
	if e.Err != nil {
		o.logger.Warn("api_call", append(attrs, "kind", e.Kind.String(), "error", e.Err)...)
		return
	}
	o.logger.Info("api_call", attrs...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
