package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"time"

	"homeserve/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Ping checks both pools. Used by the health endpoint.
func (c *Connection) Ping(ctx context.Context) error {
	if c.Write == nil || c.Read == nil {
		return errors.New("database connection not established")
	}

	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping write database: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping read database: %w", err)
	}

	return nil
}

// Close releases both pools. Read and Write may share one handle.
func (c *Connection) Close() error {
	var errs []error

	if c.Write != nil {
		errs = append(errs, c.Write.Close())
	}

	if c.Read != nil && c.Read != c.Write {
		errs = append(errs, c.Read.Close())
	}

	return errors.Join(errs...)
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	return &Connection{
		Read:  Open("read", pg.Read, pg.Prefix, pg.MaxRetry, pg.RetryWaitTime),
		Write: Open("write", pg.Write, pg.Prefix, pg.MaxRetry, pg.RetryWaitTime),
	}
}

// Open connects to node, retrying maxRetry times waitSeconds apart. It returns nil when every attempt fails.
func Open(name string, node config.PostgresNode, prefix string, maxRetry, waitSeconds int) *sqlx.DB {
	logCtx := log.With().Str("name", name).Str("host", node.Host).Str("port", node.Port).Str("dbName", prefix+node.Name).Logger()
	dsn := node.URL(prefix, nil)

	for attempt := 1; attempt <= maxRetry; attempt++ {
		sqlDB, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

			logCtx.Info().Msg("Connected to database")

			return sqlDB
		}

		logCtx.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	logCtx.Error().Int("attempts", maxRetry).Msg("Giving up connecting to database")

	return nil
}
