// Package database is the persistence and authorization layer of the
// service: it executes structured queries against Postgres, maintains
// session validity via token signatures, enforces role-scoped visibility,
// and runs the multi-statement franchise lifecycle transactionally.
package database

import (
	"context"
	"database/sql"
	"time"

	"pizza-service/internal/common/config"
	apperrors "pizza-service/internal/common/errors"
	"pizza-service/internal/common/logger"
	"pizza-service/internal/common/observability"
)

// DB exposes the repository operations. Each operation is a self-contained
// unit of work: it checks out one connection, issues its statements
// sequentially and releases the connection before returning.
type DB struct {
	client      *PostgresClient
	listPerPage int
	bcryptCost  int
	log         logger.Logger
	obs         *observability.Observability
}

func New(client *PostgresClient, cfg *config.Config, log logger.Logger, obs *observability.Observability) *DB {
	return &DB{
		client:      client,
		listPerPage: cfg.List.PerPage,
		bcryptCost:  cfg.Auth.BcryptCost,
		log:         log.WithFields(map[string]interface{}{"component": "database"}),
		obs:         obs,
	}
}

// querier is satisfied by both *sql.Conn and *sql.Tx so helpers can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn checks out a single-use connection for one logical operation.
func (db *DB) conn(ctx context.Context) (*sql.Conn, error) {
	c, err := db.client.Conn(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return c, nil
}

// release returns the connection on every exit path. A close failure never
// masks the operation error; it is surfaced only when it is the sole
// failure.
func (db *DB) release(conn *sql.Conn, err *error) {
	if cerr := conn.Close(); cerr != nil && *err == nil {
		*err = apperrors.NewStoreError("releasing connection", cerr)
	}
}

func (db *DB) observe(ctx context.Context, op string, start time.Time, err *error) {
	db.obs.RecordQuery(ctx, op, time.Since(start), *err == nil)
}
