package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Postgres  PostgresConfig  `envPrefix:"POSTGRES_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Logger    LoggerConfig    `envPrefix:"LOG_"`
	Auth      AuthConfig      `envPrefix:"AUTH_"`
	Mail      MailConfig      `envPrefix:"SMTP_"`
	Lifecycle LifecycleConfig `envPrefix:"LIFECYCLE_"`
	Files     FilesConfig     `envPrefix:"FILE_"`
	Upload    UploadConfig    `envPrefix:"UPLOAD_"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"NAME" envDefault:"referral-admin"`
	Env                   string `env:"ENV" envDefault:"development"`
	Host                  string `env:"HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"PORT" envDefault:"7000"`
	Version               string `env:"VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	CORSOrigin            string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"DSN"`
	MaxConns       int32  `env:"MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	ConnMaxIdleSec int32  `env:"CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"127.0.0.1:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
}

// AuthConfig defines admin session parameters.
type AuthConfig struct {
	JWTSecret       string `env:"JWT_SECRET" envDefault:"supersecret"`
	TokenTTLMinutes int    `env:"TOKEN_TTL_MINUTES" envDefault:"120"`
	CookieName      string `env:"COOKIE_NAME" envDefault:"token"`
	CookieSecure    bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieDomain    string `env:"COOKIE_DOMAIN"`
	BcryptCost      int    `env:"BCRYPT_COST" envDefault:"12"`
	// Bootstrap* seed the first panel operator when no admin owns the email.
	BootstrapEmail    string `env:"BOOTSTRAP_EMAIL"`
	BootstrapPassword string `env:"BOOTSTRAP_PASSWORD"`
	BootstrapName     string `env:"BOOTSTRAP_NAME" envDefault:"Admin"`
}

// MailConfig describes the SMTP relay used for transactional mail.
type MailConfig struct {
	Host              string `env:"HOST"`
	Port              int    `env:"PORT" envDefault:"587"`
	UseTLS            bool   `env:"USE_TLS" envDefault:"false"`
	Username          string `env:"USER"`
	Password          string `env:"PASS"`
	FromAddress       string `env:"FROM" envDefault:"admin@niftrix.com"`
	SandboxMode       bool   `env:"SANDBOX" envDefault:"false"`
	SandboxPreviewURL string `env:"SANDBOX_PREVIEW_URL" envDefault:"http://localhost:8025"`
	TimeoutSeconds    int    `env:"TIMEOUT_SECONDS" envDefault:"10"`
	BulkMax           int    `env:"BULK_MAX" envDefault:"500"`
}

// LifecycleConfig bounds user status transitions.
type LifecycleConfig struct {
	TimeoutSeconds int `env:"TIMEOUT_SECONDS" envDefault:"15"`
}

// FilesConfig holds public asset settings.
type FilesConfig struct {
	BaseURL string `env:"BASE_URL"`
}

// UploadConfig limits multipart uploads.
type UploadConfig struct {
	MaxBytes int `env:"MAX_BYTES" envDefault:"10485760"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("AUTH_JWT_SECRET must not be empty")
	}
	if c.App.IsProduction() && c.Auth.JWTSecret == "supersecret" {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	if !c.Mail.SandboxMode && strings.TrimSpace(c.Mail.Host) == "" {
		return errors.New("SMTP_HOST is required unless SMTP_SANDBOX is enabled")
	}
	if c.Mail.Port <= 0 {
		return fmt.Errorf("invalid SMTP_PORT %d", c.Mail.Port)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether the service runs in production.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the admin session lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// Timeout returns the per-call mail timeout.
func (m MailConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// Timeout returns the bound applied to one verify or suspend operation.
func (l LifecycleConfig) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}
