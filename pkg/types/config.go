package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. A timed-out page fetch is a failed fetch.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "grants-reporter/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ReporterConfig holds settings for the remote project search API.
type ReporterConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the project search URL. Empty selects the public RePORTER endpoint.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// PageLimit is the page size used for exhaustive fetches (default and maximum 500).
	PageLimit int `json:"page_limit" yaml:"page_limit"`

	// MaxRetries is the number of HTTP 429 retries per page. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format"`
}

// ServeConfig holds settings for the HTTP surface.
type ServeConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`
}

// TermFrequencyConfig holds settings for term-frequency analysis.
type TermFrequencyConfig struct {
	// Concurrency bounds the number of count queries in flight (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// Config groups all component configurations.
type Config struct {
	Reporter      ReporterConfig      `json:"reporter" yaml:"reporter"`
	Log           LogConfig           `json:"log" yaml:"log"`
	Serve         ServeConfig         `json:"serve" yaml:"serve"`
	TermFrequency TermFrequencyConfig `json:"term_frequency" yaml:"term_frequency"`
}
