package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pizza-service/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database handle.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a PostgreSQL client from configuration.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection.
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database handle.
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Conn checks out a dedicated connection. The caller owns it until Close.
func (c *PostgresClient) Conn(ctx context.Context) (*sql.Conn, error) {
	return c.DB.Conn(ctx)
}
