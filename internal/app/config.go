package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/yungbote/bookshelf-backend/internal/data/db"
	"github.com/yungbote/bookshelf-backend/internal/observability"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	LogMode string `env:"LOG_MODE" envDefault:"development"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	Version string `env:"APP_VERSION"`

	DBDriver         string `env:"DB_DRIVER" envDefault:"postgres"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresName     string `env:"POSTGRES_NAME" envDefault:"bookshelf"`
	SQLitePath       string `env:"SQLITE_PATH" envDefault:"bookshelf.db"`

	JWTSecretKey      string `env:"JWT_SECRET_KEY" envDefault:"defaultsecret"`
	AccessTokenTTLSec int    `env:"ACCESS_TOKEN_TTL" envDefault:"3600"`
	LoginSharedSecret string `env:"LOGIN_SHARED_SECRET" envDefault:"secret"`
	BcryptCost        int    `env:"BCRYPT_COST" envDefault:"10"`
	// AccessTokenTTL is derived from AccessTokenTTLSec after parsing.
	AccessTokenTTL time.Duration

	RedisAddr        string   `env:"REDIS_ADDR"`
	RedisChannel     string   `env:"REDIS_CHANNEL" envDefault:"catalog-events"`
	SubscriberBuffer int      `env:"SUBSCRIBER_BUFFER" envDefault:"16"`
	CORSOrigins      []string `env:"CORS_ORIGINS" envSeparator:","`

	MetricsEnabled bool   `env:"METRICS_ENABLED"`
	MetricsAddr    string `env:"METRICS_ADDR" envDefault:":9090"`

	OtelEnabled     bool    `env:"OTEL_ENABLED"`
	OtelServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"bookshelf"`
	OtelSampleRatio float64 `env:"OTEL_SAMPLER_RATIO" envDefault:"0.1"`
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders     string  `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.AccessTokenTTL = time.Duration(cfg.AccessTokenTTLSec) * time.Second
	switch cfg.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

func (c Config) DBOptions() db.Options {
	return db.Options{
		Driver:           c.DBDriver,
		PostgresHost:     c.PostgresHost,
		PostgresPort:     c.PostgresPort,
		PostgresUser:     c.PostgresUser,
		PostgresPassword: c.PostgresPassword,
		PostgresName:     c.PostgresName,
		SQLitePath:       c.SQLitePath,
	}
}

func (c Config) OtelConfig() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.OtelEnabled,
		ServiceName: c.OtelServiceName,
		Environment: c.Env,
		Version:     c.Version,
		SampleRatio: c.OtelSampleRatio,
		Endpoint:    c.OtelEndpoint,
		Headers:     observability.ParseHeaders(c.OtelHeaders),
		Insecure:    c.OtelInsecure,
	}
}
