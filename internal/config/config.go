package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Digest   DigestConfig   `mapstructure:"digest"   validate:"required"`
	Email    EmailConfig    `mapstructure:"email"`
	Push     PushConfig     `mapstructure:"push"`
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

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// DigestConfig contains settings for the daily digest batch job.
type DigestConfig struct {
	// CronSecret authenticates the external scheduler calling the daily
	// digest endpoint via the X-Cron-Key header.
	CronSecret string `mapstructure:"cron_secret" validate:"required,min=16"`

	// AppURL is the public URL of the web app, used in digest links.
	AppURL string `mapstructure:"app_url" validate:"required,url"`

	// Workers bounds the per-user fan-out of the digest dispatcher.
	Workers int `mapstructure:"workers" validate:"gte=0"`

	// Timezone is the IANA zone the batch job treats as "today".
	Timezone string `mapstructure:"timezone"`
}

// EmailConfig contains settings for the outbound email channel.
// Email sending is disabled when the API key is empty.
type EmailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	FromAddress  string `mapstructure:"from_address" validate:"omitempty,email"`
}

// PushConfig contains VAPID settings for the web-push channel.
// Push sending is disabled when the keys are empty.
type PushConfig struct {
	VAPIDSubject    string `mapstructure:"vapid_subject"`
	VAPIDPublicKey  string `mapstructure:"vapid_public_key"`
	VAPIDPrivateKey string `mapstructure:"vapid_private_key"`
}
