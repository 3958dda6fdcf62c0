package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by the service,
// e.g. DRAFTSMITH_LLM_API_KEY maps to llm.api_key.
const envPrefix = "DRAFTSMITH"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file.
//
// Validation is fatal-at-startup by design: a missing credential or an
// out-of-range retry setting is reported here, before any component is
// constructed, rather than discovered at request time.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file; absence is not an error.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables: DRAFTSMITH_SERVER_PORT, DRAFTSMITH_LLM_API_KEY, ...
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through Unmarshal,
	// so bind every known key explicitly.
	for _, key := range configKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct validation over the full configuration and returns
// a readable error naming each offending field.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Image.BackoffCapSeconds < cfg.Image.BackoffBaseSeconds {
		return fmt.Errorf("invalid configuration: image.backoff_cap_seconds must be >= image.backoff_base_seconds")
	}

	return nil
}

// setDefaults establishes defaults for settings that have sensible ones.
// Credentials deliberately have no defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.model_name", "gpt-4o")
	v.SetDefault("llm.max_tokens", 4000)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("image.model_name", "dall-e-3")
	v.SetDefault("image.size", "1024x1024")
	v.SetDefault("image.quality", "standard")
	v.SetDefault("image.max_attempts", 3)
	v.SetDefault("image.backoff_base_seconds", 2)
	v.SetDefault("image.backoff_cap_seconds", 30)
	v.SetDefault("image.requests_per_minute", 0)

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
}

// configKeys lists every configuration key for explicit env binding.
func configKeys() []string {
	return []string{
		"server.port",
		"server.log_level",
		"database.url",
		"auth.jwt_secret",
		"auth.token_lifetime_minutes",
		"auth.admin_email",
		"auth.admin_password_hash",
		"llm.api_key",
		"llm.model_name",
		"llm.max_tokens",
		"llm.max_retries",
		"llm.retry_delay_seconds",
		"image.api_key",
		"image.model_name",
		"image.size",
		"image.quality",
		"image.max_attempts",
		"image.backoff_base_seconds",
		"image.backoff_cap_seconds",
		"image.requests_per_minute",
		"task.worker_count",
		"task.queue_size",
	}
}
