package database

import (
	"context"
	"strings"
	"time"

	apperrors "pizza-service/internal/common/errors"
)

// TokenSignature derives the stable, compact signature stored in place of
// the raw session token: the segment after the final delimiter of a
// three-part dot-delimited token. The transform is one-way by contract;
// the registry only ever re-derives and compares.
func TokenSignature(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) > 2 {
		return parts[2]
	}
	return ""
}

// LoginUser records an active session for the user under the token's
// signature.
func (db *DB) LoginUser(ctx context.Context, userID int64, token string) (err error) {
	defer db.observe(ctx, "loginUser", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return err
	}
	defer db.release(conn, &err)

	_, err = conn.ExecContext(ctx,
		`INSERT INTO auth_sessions (token, user_id) VALUES ($1, $2)`,
		TokenSignature(token), userID)
	if err != nil {
		return apperrors.NewStoreError("recording session", err)
	}
	return nil
}

// IsLoggedIn reports whether a session row exists for the token. Absence
// is not an error: it means logged out.
func (db *DB) IsLoggedIn(ctx context.Context, token string) (active bool, err error) {
	defer db.observe(ctx, "isLoggedIn", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return false, err
	}
	defer db.release(conn, &err)

	rows, err := conn.QueryContext(ctx,
		`SELECT user_id FROM auth_sessions WHERE token=$1`, TokenSignature(token))
	if err != nil {
		return false, apperrors.NewStoreError("checking session", err)
	}
	defer rows.Close()

	active = rows.Next()
	if rerr := rows.Err(); rerr != nil {
		return false, apperrors.NewStoreError("checking session", rerr)
	}
	return active, nil
}

// LogoutUser revokes the session. Deleting a never-recorded token is not
// an error; logout is idempotent.
func (db *DB) LogoutUser(ctx context.Context, token string) (err error) {
	defer db.observe(ctx, "logoutUser", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return err
	}
	defer db.release(conn, &err)

	_, err = conn.ExecContext(ctx,
		`DELETE FROM auth_sessions WHERE token=$1`, TokenSignature(token))
	if err != nil {
		return apperrors.NewStoreError("revoking session", err)
	}
	return nil
}
