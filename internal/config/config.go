package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"kamishop"`
	ServerPort  int    `env:"SERVER_PORT"  envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://kamishop.db"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
	Timezone string `env:"APP_TIMEZONE" envDefault:"Asia/Shanghai"`

	JWTAccessSecret  string `env:"JWT_SECRET"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	ESURL      string `env:"ES_URL"`
	ESUser     string `env:"ES_USER"`
	ESPassword string `env:"ES_PASSWORD"`
	ESIndex    string `env:"ES_INDEX" envDefault:"products"`

	RedisURL          string        `env:"REDIS_URL"`
	DashboardCacheTTL time.Duration `env:"DASHBOARD_CACHE_TTL" envDefault:"30s"`

	UploadDir   string   `env:"UPLOAD_DIR"   envDefault:"drawingbed"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`

	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"true"`
	CSRFEnabled   bool `env:"CSRF_ENABLED"   envDefault:"false"`

	// Cron specs for maintenance jobs; empty disables the job.
	DedupCron        string `env:"DEDUP_CRON"`
	PurgePendingCron string `env:"PURGE_PENDING_CRON"`

	SeedExampleData bool   `env:"SEED_EXAMPLE_DATA" envDefault:"false"`
	AdminEmail      string `env:"ADMIN_EMAIL"`
	AdminPassword   string `env:"ADMIN_PASSWORD"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Location resolves APP_TIMEZONE. An empty value is UTC; an unknown zone
// returns UTC together with the lookup error.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
