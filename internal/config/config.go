package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Image    ImageConfig    `mapstructure:"image"    validate:"required"`
	Task     TaskConfig     `mapstructure:"task"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings for the single admin
// credential and for issuing access tokens.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	AdminEmail           string `mapstructure:"admin_email"            validate:"required,email"`
	// AdminPasswordHash is the bcrypt hash of the admin password. Plain
	// passwords are never accepted from configuration.
	AdminPasswordHash string `mapstructure:"admin_password_hash" validate:"required"`
}

// LLMConfig contains settings for the article generation provider.
// The API key is required at startup for any feature depending on it;
// there is no demo fallback.
type LLMConfig struct {
	APIKey            string `mapstructure:"api_key"             validate:"required"`
	ModelName         string `mapstructure:"model_name"          validate:"required"`
	MaxTokens         int    `mapstructure:"max_tokens"          validate:"gte=0"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// ImageConfig contains settings for the image generation provider and the
// acquisition retry policy. Defaults for the retry policy are documented
// here because the remote service specifies none.
type ImageConfig struct {
	APIKey    string `mapstructure:"api_key"    validate:"required"`
	ModelName string `mapstructure:"model_name" validate:"required"`
	Size      string `mapstructure:"size"       validate:"required,oneof=1024x1024 1792x1024 1024x1792"`
	Quality   string `mapstructure:"quality"    validate:"required,oneof=standard hd"`

	// MaxAttempts bounds outbound calls per acquisition, including the first.
	MaxAttempts int `mapstructure:"max_attempts" validate:"required,gte=1,lte=10"`

	// BackoffBaseSeconds is the initial retry delay; each retry doubles it,
	// with jitter, up to BackoffCapSeconds.
	BackoffBaseSeconds int `mapstructure:"backoff_base_seconds" validate:"required,gte=1"`
	BackoffCapSeconds  int `mapstructure:"backoff_cap_seconds"  validate:"required,gte=1"`

	// RequestsPerMinute is the shared outbound rate budget across all
	// concurrent acquisitions. Zero disables rate limiting.
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gte=0"`
}

// TaskConfig contains settings for the background task runner.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gte=0"`
	QueueSize   int `mapstructure:"queue_size"   validate:"gte=0"`
}
