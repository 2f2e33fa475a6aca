package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"lightbnb/internal/domain"
	"lightbnb/internal/shared"
	mysqlrepo "lightbnb/internal/storage/mysql"
	"lightbnb/internal/storage/postgres"
)

// Open connects to the store selected by cfg.StoreDriver and returns the
// repository plus a func that releases its pool.
func Open(ctx context.Context, cfg shared.Config) (domain.Repository, func(), error) {
	switch cfg.StoreDriver {
	case shared.DriverPostgres:
		pool, err := postgres.NewClient(ctx, postgres.Config{URL: cfg.PostgresURL, MaxConns: 10, MaxConnLifetime: time.Hour})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("driver", cfg.StoreDriver).Msg("database connection ok")
		return postgres.New(pool), pool.Close, nil
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(time.Hour)
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		log.Info().Str("driver", cfg.StoreDriver).Msg("database connection ok")
		return mysqlrepo.New(db), func() { _ = db.Close() }, nil
	}
}
