package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables use the
// DONELIST_ prefix with underscores for nesting (e.g. DONELIST_SERVER_PORT)
// and take precedence over file values. Returns a validated Config or an
// error describing what failed.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DONELIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only surfaces keys viper already knows about, so keys
	// without defaults need an explicit binding to unmarshal from env.
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"database.url", "DONELIST_DATABASE_URL"},
		{"auth.jwt_secret", "DONELIST_AUTH_JWT_SECRET"},
		{"llm.gemini_api_key", "DONELIST_LLM_GEMINI_API_KEY"},
	}
	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env.envVar, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 10080) // 7 days

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.timeout_seconds", 60)

	v.SetDefault("dapr.http_port", 3500)
	v.SetDefault("dapr.pubsub_name", "kafka-pubsub")
	v.SetDefault("dapr.secret_store", "kubernetes-secrets")
	v.SetDefault("dapr.timeout_seconds", 10)

	v.SetDefault("reminder.strategy", ReminderStrategyPoll)
	v.SetDefault("reminder.poll_interval_seconds", 300)
}
