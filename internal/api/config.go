package api

import "time"

// Config holds the data API client settings.
type Config struct {
	Endpoint  string
	TimeoutMs int
	DialMs    int
}

// DefaultConfig returns a Config pointing at a local service.
func DefaultConfig() Config {
	return Config{
		Endpoint:  "http://localhost:8080",
		TimeoutMs: 15000,
		DialMs:    5000,
	}
}

// Timeout returns the per-request deadline; zero disables it.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
