// Package config loads the service settings from the environment, after merging a local .env file.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	defaultBusinessStartHour = 9
	defaultBusinessEndHour   = 17
	defaultOutboxSchedule    = "@every 5s"
	defaultOutboxBatchSize   = 50
	defaultOutboxMaxAttempts = 10
)

// PostgresNode is one side of the read/write pair.
type PostgresNode struct {
	Host     string `envconfig:"HOST"     default:"localhost"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"     default:"homeserve"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

// URL renders the node as a postgres:// connection string. The database name gets prefix prepended
// and query carries driver options beyond sslmode.
func (n PostgresNode) URL(prefix string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}

	query.Set("sslmode", n.SSLMode)

	return (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(n.Username, n.Password),
		Host:     net.JoinHostPort(n.Host, n.Port),
		Path:     prefix + n.Name,
		RawQuery: query.Encode(),
	}).String()
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"homeserve"`
		Timezone string `envconfig:"TIMEZONE" default:"UTC"`
		APIKey   string `envconfig:"API_KEY"`
		CORS     struct {
			Enable           bool     `envconfig:"ENABLE"`
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS" default:"GET,POST,PUT,PATCH"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS" default:"Authorization,Content-Type,X-API-Key"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS" default:"300"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"60"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Booking struct {
		BusinessStartHour int    `envconfig:"BUSINESS_START_HOUR"`
		BusinessEndHour   int    `envconfig:"BUSINESS_END_HOUR"`
		RestDay           string `envconfig:"REST_DAY" default:"Sunday"`
		// RandomSeed pins the provider tie-break. Zero seeds from the clock.
		RandomSeed int64 `envconfig:"RANDOM_SEED"`
	} `envconfig:"BOOKING"`

	Outbox struct {
		Schedule    string `envconfig:"SCHEDULE"`
		BatchSize   int    `envconfig:"BATCH_SIZE"`
		MaxAttempts int    `envconfig:"MAX_ATTEMPTS"`
	} `envconfig:"OUTBOX"`

	Cache struct {
		TTL   int `envconfig:"TTL" default:"60"`
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST" default:"localhost"`
				Port     string `envconfig:"PORT" default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret    string `envconfig:"ACCESS_SECRET"`
		AccessExpireMin int    `envconfig:"ACCESS_EXPIRE_MIN" default:"60"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int          `envconfig:"MAX_RETRY"       default:"5"`
			RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MigrationTable string       `envconfig:"MIGRATION_TABLE"`
			Prefix         string       `envconfig:"PREFIX"`
			Read           PostgresNode `envconfig:"READ"`
			Write          PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers           []string `envconfig:"BROKERS"`
		NotificationTopic string   `envconfig:"NOTIFICATION_TOPIC" default:"booking.events"`
		SASL              struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	}
}

// BusinessHours returns the hour grid used for slot previews, [start, end).
// An unset or inverted pair falls back to 09:00-17:00.
func (c *Config) BusinessHours() (start, end int) {
	start, end = c.Booking.BusinessStartHour, c.Booking.BusinessEndHour
	if end <= start || start < 0 || end > 24 {
		return defaultBusinessStartHour, defaultBusinessEndHour
	}

	return start, end
}

// RestDay is the weekday on which providers without a stored schedule do not work.
func (c *Config) RestDay() time.Weekday {
	name := strings.TrimSpace(c.Booking.RestDay)

	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), name) {
			return day
		}
	}

	return time.Sunday
}

func (c *Config) OutboxSchedule() string {
	return orDefault(c.Outbox.Schedule, defaultOutboxSchedule)
}

func (c *Config) OutboxBatchSize() int {
	return orDefault(c.Outbox.BatchSize, defaultOutboxBatchSize)
}

func (c *Config) OutboxMaxAttempts() int {
	return orDefault(c.Outbox.MaxAttempts, defaultOutboxMaxAttempts)
}

func orDefault[T int | string](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}

	if n, ok := any(value).(int); ok && n < 0 {
		return fallback
	}

	return value
}

var (
	conf    Config
	once    sync.Once
	loadErr error
)

// Load reads .env (if present) and the environment into a fresh Config.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	if err := godotenv.Load(envFiles...); err != nil {
		log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing environment variables: %w", err)
	}

	return cfg, nil
}

// Get returns the process-wide configuration, loading it on first use.
// An invalid environment is fatal.
func Get() *Config {
	once.Do(func() {
		var cfg *Config

		cfg, loadErr = Load()
		if loadErr != nil {
			log.Fatal().Err(loadErr).Msg("Failed to load configuration")

			return
		}

		conf = *cfg

		log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized")
	})

	return &conf
}
