// Package config loads and validates application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Search     SearchConfig     `mapstructure:"search"     validate:"required"`
	Suggestion SuggestionConfig `mapstructure:"suggestion" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// AllowedOrigins configures CORS for browser callers. Empty means
	// same-origin only.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
// The URL is only required when the recency store backend is "postgres".
type DatabaseConfig struct {
	// Backend selects the recency store implementation.
	Backend string `mapstructure:"backend" validate:"required,oneof=postgres memory"`
	URL     string `mapstructure:"url"     validate:"required_if=Backend postgres,omitempty,url"`
}

// SearchConfig contains settings for the full-text search backend.
type SearchConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// RequestTimeoutSeconds is the transport-level ceiling for a single
	// backend call.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}

// SuggestionConfig tunes the suggestion pipeline.
type SuggestionConfig struct {
	// CatalogPath points at the YAML file describing available task types
	// and topics.
	CatalogPath string `mapstructure:"catalog_path" validate:"required"`

	// MaxConcurrentQueries bounds the worker pool dispatching synthesized
	// queries, so one request cannot saturate the search backend.
	MaxConcurrentQueries int `mapstructure:"max_concurrent_queries" validate:"required,gt=0,lte=32"`

	// QueryTimeoutSeconds is the per-query deadline; a query past it is
	// treated like a failed query.
	QueryTimeoutSeconds int `mapstructure:"query_timeout_seconds" validate:"required,gt=0"`

	// DefaultLimit is the page size used when the caller does not supply
	// one.
	DefaultLimit int `mapstructure:"default_limit" validate:"required,gt=0,lte=250"`

	// RecencyTTLHours is the scrolling window for the opened-items cache.
	RecencyTTLHours int `mapstructure:"recency_ttl_hours" validate:"required,gt=0"`

	// RescoreProfile optionally names a backend rescore profile applied
	// to tag-matching queries.
	RescoreProfile string `mapstructure:"rescore_profile"`
}
