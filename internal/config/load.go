package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config
// files. Environment variables take precedence over values from config
// files. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file in the working directory; a missing file is
	// fine, a malformed one is not.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables with SUGGEST_ prefix override file values,
	// e.g. SUGGEST_SERVER_PORT, SUGGEST_DATABASE_URL.
	v.SetEnvPrefix("SUGGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values so a minimal environment can boot
// the server with only the search base URL and catalog path supplied.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.backend", "postgres")
	// Keys without meaningful defaults are still registered so that
	// environment-only configuration reaches Unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("search.base_url", "")
	v.SetDefault("suggestion.rescore_profile", "")
	v.SetDefault("search.request_timeout_seconds", 10)
	v.SetDefault("suggestion.max_concurrent_queries", 4)
	v.SetDefault("suggestion.query_timeout_seconds", 5)
	v.SetDefault("suggestion.default_limit", 20)
	v.SetDefault("suggestion.recency_ttl_hours", 168)
	v.SetDefault("suggestion.catalog_path", "catalog.yaml")
}
