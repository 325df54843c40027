package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Dapr     DaprConfig     `mapstructure:"dapr" validate:"required"`
	Reminder ReminderConfig `mapstructure:"reminder" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings. The JWT secret is shared with
// the external auth frontend that issues the tokens; the `sub` claim of a
// valid token is the owner identity for every task and conversation.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains settings for the completion provider backing the
// conversational agent.
type LLMConfig struct {
	GeminiAPIKey   string `mapstructure:"gemini_api_key"`
	ModelName      string `mapstructure:"model_name" validate:"required"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// DaprConfig contains settings for the Dapr sidecar HTTP API. The sidecar is
// the only transport this service uses for pub/sub, scheduled jobs, secrets
// and service invocation.
type DaprConfig struct {
	HTTPPort       int    `mapstructure:"http_port" validate:"required,gt=0,lt=65536"`
	PubSubName     string `mapstructure:"pubsub_name" validate:"required"`
	SecretStore    string `mapstructure:"secret_store"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// Reminder delivery strategies.
const (
	ReminderStrategyPoll    = "poll"
	ReminderStrategyOneShot = "oneshot"
)

// ReminderConfig selects and tunes the reminder delivery strategy.
type ReminderConfig struct {
	Strategy            string `mapstructure:"strategy" validate:"required,oneof=poll oneshot"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds" validate:"required,gt=0"`
}
