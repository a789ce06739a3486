package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores marketplace service and worker settings.
type Config struct {
	Port             int           `env:"PORT" env-default:"8080"`
	AdminPort        int           `env:"ADMIN_PORT" env-default:"9090"`
	LogLevel         string        `env:"LOG_LEVEL" env-default:"info"`
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT" env-default:"3s"`

	DB        DB
	Kafka     Kafka
	Auth      Auth
	RateLimit RateLimit
	Publisher Publisher
	Worker    Worker
	Pprof     Pprof
}

// DB stores Postgres connection settings.
type DB struct {
	Host        string `env:"POSTGRES_HOST" env-default:"127.0.0.1"`
	Port        string `env:"POSTGRES_PORT" env-default:"5432"`
	User        string `env:"POSTGRES_USER" env-default:"myuser"`
	Pass        string `env:"POSTGRES_PASSWORD" env-default:"mypassword"`
	Name        string `env:"POSTGRES_DB" env-default:"vendorconnect"`
	AutoMigrate bool   `env:"POSTGRES_AUTO_MIGRATE" env-default:"true"`
}

// DSN returns a pgx connection string.
func (d DB) DSN() string {
	return d.url("postgres")
}

// MigrateURL returns the connection string for the pgx/v5 migrate driver.
func (d DB) MigrateURL() string {
	return d.url("pgx5")
}

func (d DB) url(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Kafka stores event stream settings. Publishing and consuming are disabled
// when Brokers is empty.
type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `env:"KAFKA_TOPIC" env-default:"marketplace.events"`
	GroupID string   `env:"KAFKA_GROUP_ID" env-default:"vendorconnect-worker"`
}

// Enabled reports whether brokers are configured.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

// Auth stores bearer token verification settings.
type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

// RateLimit stores per-client token bucket settings.
type RateLimit struct {
	Enabled    bool          `env:"RATE_LIMIT_ENABLED" env-default:"true"`
	Rate       float64       `env:"RATE_LIMIT_RATE" env-default:"10"`
	Burst      int           `env:"RATE_LIMIT_BURST" env-default:"20"`
	TTL        time.Duration `env:"RATE_LIMIT_TTL" env-default:"5m"`
	MaxBuckets int           `env:"RATE_LIMIT_MAX_BUCKETS" env-default:"10000"`
	// Clients without a verified actor are keyed by address.
	AnonRate  float64 `env:"RATE_LIMIT_ANON_RATE" env-default:"2"`
	AnonBurst int     `env:"RATE_LIMIT_ANON_BURST" env-default:"5"`
}

// Publisher stores event publisher retry settings.
type Publisher struct {
	MaxAttempts int           `env:"PUBLISHER_MAX_ATTEMPTS" env-default:"4"`
	BaseDelay   time.Duration `env:"PUBLISHER_BASE_DELAY" env-default:"150ms"`
	MaxDelay    time.Duration `env:"PUBLISHER_MAX_DELAY" env-default:"2s"`
}

// Worker stores background worker settings.
type Worker struct {
	SweepInterval   time.Duration `env:"GROUP_ORDER_SWEEP_INTERVAL" env-default:"1m"`
	TrackingBaseURL string        `env:"TRACKING_BASE_URL" env-default:"https://vendorconnect.com"`
}

// Pprof stores admin server credentials for non-loopback clients.
type Pprof struct {
	User string `env:"PPROF_USER"`
	Pass string `env:"PPROF_PASSWORD"`
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.IntVar(&cfg.AdminPort, "admin-port", cfg.AdminPort, "metrics and pprof port")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.AdminPort <= 0 || c.AdminPort > 65535 || c.AdminPort == c.Port {
		return fmt.Errorf("invalid admin port: %d", c.AdminPort)
	}
	if p, err := strconv.Atoi(c.DB.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid postgres port: %q", c.DB.Port)
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = DefaultOperationTimeout()
	}
	if c.Publisher.MaxAttempts < 1 {
		c.Publisher = DefaultPublisher()
	}
	if c.Worker.SweepInterval <= 0 {
		return fmt.Errorf("invalid group order sweep interval: %s", c.Worker.SweepInterval)
	}
	return nil
}
