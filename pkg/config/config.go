package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "slop"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "SLOP_APP_ENV"
	EnvPort       = "SLOP_APP_PORT"
	EnvDBDSN      = "SLOP_DB_DSN"
	EnvDBHost     = "SLOP_DB_HOST"
	EnvDBUser     = "SLOP_DB_USER"
	EnvDBName     = "SLOP_DB_NAME"
	EnvRedisURL   = "SLOP_REDIS_URL"
	EnvJWTSecret  = "SLOP_JWT_SECRET"
	EnvJWTIssuer  = "SLOP_JWT_ISSUER"
	EnvStripeKey  = "SLOP_STRIPE_API_KEY"
	EnvStripeHook = "SLOP_STRIPE_WEBHOOK_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Stripe       StripeConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SLOP_APP_ENV" required:"true"`
	Port         string `envconfig:"SLOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SLOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SLOP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"SLOP_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma-separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	parts := strings.Split(a.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type DBConfig struct {
	DSN    string `envconfig:"SLOP_DB_DSN"`
	Driver string `envconfig:"SLOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SLOP_DB_HOST"`
	LegacyPort     int    `envconfig:"SLOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SLOP_DB_USER"`
	LegacyPassword string `envconfig:"SLOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"SLOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"SLOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SLOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SLOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SLOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SLOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SLOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SLOP_REDIS_ADDR"`
	Password     string        `envconfig:"SLOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SLOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SLOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SLOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SLOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SLOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SLOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig describes how to verify access tokens minted by the auth provider.
// This service never issues credentials of its own.
type JWTConfig struct {
	Secret string `envconfig:"SLOP_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"SLOP_JWT_ISSUER" required:"true"`
}

type StripeConfig struct {
	APIKey        string        `envconfig:"SLOP_STRIPE_API_KEY"`
	WebhookSecret string        `envconfig:"SLOP_STRIPE_WEBHOOK_SECRET"`
	Env           string        `envconfig:"SLOP_STRIPE_ENV" default:"test"`
	EventGuardTTL time.Duration `envconfig:"SLOP_STRIPE_EVENT_GUARD_TTL" default:"72h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SLOP_AUTO_MIGRATE" default:"false"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
