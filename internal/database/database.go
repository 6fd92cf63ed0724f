package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"abk-storefront/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// DB owns the PostgreSQL connection pool used by the repositories
type DB struct {
	client *sql.DB
	logger *zap.Logger
}

// New opens the pool described by cfg and verifies it answers a ping
func New(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	client, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Connection pool tuning
	client.SetConnMaxLifetime(30 * time.Minute)
	client.SetMaxOpenConns(25)
	client.SetMaxIdleConns(25)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.PingContext(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
	)
	return &DB{client: client, logger: logger}, nil
}

func (d *DB) DB() *sql.DB {
	return d.client
}

// Health pings the database and reports pool statistics
func (d *DB) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	stats := make(map[string]string)
	if err := d.client.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	s := d.client.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(s.OpenConnections)
	stats["in_use"] = strconv.Itoa(s.InUse)
	stats["idle"] = strconv.Itoa(s.Idle)
	stats["wait_count"] = strconv.FormatInt(s.WaitCount, 10)
	return stats
}

// Close releases the pool
func (d *DB) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	d.logger.Info("Closing database connection")
	return d.client.Close()
}
