package database

import (
	"context"
	"database/sql"
	"errors"

	apperrors "pizza-service/internal/common/errors"
	"pizza-service/internal/models"

	"github.com/google/uuid"
)

const defaultAdminEmail = "a@jwt.com"

var tableDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		role TEXT NOT NULL,
		object_id BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS franchises (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stores (
		id BIGSERIAL PRIMARY KEY,
		franchise_id BIGINT NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		image TEXT NOT NULL,
		price NUMERIC(10,4) NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS diner_orders (
		id BIGSERIAL PRIMARY KEY,
		diner_id BIGINT NOT NULL,
		franchise_id BIGINT NOT NULL,
		store_id BIGINT NOT NULL,
		date TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL,
		menu_id BIGINT NOT NULL,
		description TEXT NOT NULL,
		price NUMERIC(10,4) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS auth_sessions (
		token TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL
	)`,
}

// Initialize creates the schema when missing and seeds the default global
// admin on first run. The generated admin password is logged exactly once.
func (db *DB) Initialize(ctx context.Context) error {
	adminExists, err := db.ensureSchema(ctx)
	if err != nil {
		return err
	}
	if adminExists {
		return nil
	}

	password := uuid.NewString()
	admin := models.User{
		Name:     "admin",
		Email:    defaultAdminEmail,
		Password: password,
		Roles:    []models.Role{models.AdminRole()},
	}
	if _, err = db.AddUser(ctx, admin); err != nil {
		return err
	}
	db.log.Info("created default admin user", map[string]interface{}{
		"email":    defaultAdminEmail,
		"password": password,
	})
	return nil
}

func (db *DB) ensureSchema(ctx context.Context) (adminExists bool, err error) {
	conn, err := db.conn(ctx)
	if err != nil {
		return false, err
	}
	defer db.release(conn, &err)

	for _, ddl := range tableDDL {
		if _, err = conn.ExecContext(ctx, ddl); err != nil {
			return false, apperrors.NewStoreError("creating schema", err)
		}
	}

	var adminID int64
	err = conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email=$1`, defaultAdminEmail).Scan(&adminID)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewStoreError("checking default admin", err)
	}
	return true, nil
}
