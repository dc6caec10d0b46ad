package rest

import "time"

const (
	defaultHTTPTimeout     = 30 * time.Second
	defaultRequestsPerSec  = 10
	defaultReadRetries     = 3
	defaultMaxRetryBackoff = 2 * time.Second
	maxResponseBodyBytes   = 4 * 1024 * 1024
	maxErrorBodyBytes      = 64 * 1024
)

// Config configures a REST array client.
type Config struct {
	// Endpoint is the array address, e.g. "https://10.0.0.5" or "array.lab:8443".
	Endpoint   string
	Username   string
	Password   string
	VerifyCert bool
	Timeout    time.Duration
	// RequestsPerSecond paces every request of this client. Zero means the
	// default; a negative value disables pacing.
	RequestsPerSecond float64
	// ReadRetries bounds retries of idempotent GETs; negative disables them.
	// Mutations are never retried.
	ReadRetries     int
	MaxRetryBackoff time.Duration
	// Async asks the array to run mutations as jobs.
	Async bool
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultHTTPTimeout
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = defaultRequestsPerSec
	}
	if c.ReadRetries < 0 {
		c.ReadRetries = 0
	} else if c.ReadRetries == 0 {
		c.ReadRetries = defaultReadRetries
	}
	if c.MaxRetryBackoff <= 0 {
		c.MaxRetryBackoff = defaultMaxRetryBackoff
	}
	return c
}
