package config

import "time"

// Config holds runtime configuration for the Cryptocat bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	App     AppConfig     `mapstructure:"app" validate:"required"`
	Bot     BotConfig     `mapstructure:"bot" validate:"required"`
	Quote   QuoteConfig   `mapstructure:"quote" validate:"required"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// AppConfig carries the identity strings reported by the /info command.
type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version" validate:"required"`
}

// BotConfig configures the Telegram session and the update pump.
type BotConfig struct {
	Token        string        `mapstructure:"token" validate:"required"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout" validate:"min=1s"`
	DropPending  bool          `mapstructure:"drop_pending"`
	UpdateBuffer int           `mapstructure:"update_buffer" validate:"min=1"`
	DedupTTL     time.Duration `mapstructure:"dedup_ttl" validate:"min=1m"`
}

// QuoteConfig configures the price ticker endpoint.
type QuoteConfig struct {
	Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
	Symbol   string        `mapstructure:"symbol" validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"min=1s"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`

	// File enables rotated file output alongside stdout when non-empty.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// MetricsConfig configures the Prometheus/health HTTP server.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    string `mapstructure:"port" validate:"required_if=Enabled true"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
}

// RedisConfig configures the optional Redis-backed dedup store.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}
