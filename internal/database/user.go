package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "pizza-service/internal/common/errors"
	"pizza-service/internal/common/metrics"
	"pizza-service/internal/models"
)

// AddUser hashes the password, inserts the user row and one role row per
// assignment. Franchisee roles have their franchise name resolved to an id
// first; the referenced franchise must already exist. The returned record
// has the id populated and the password stripped.
func (db *DB) AddUser(ctx context.Context, user models.User) (created *models.User, err error) {
	defer db.observe(ctx, "addUser", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	digest, err := db.hashPassword(user.Password)
	if err != nil {
		return nil, err
	}

	err = conn.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
		user.Name, user.Email, digest).Scan(&user.ID)
	if err != nil {
		return nil, apperrors.NewStoreError("inserting user", err)
	}

	for i, role := range user.Roles {
		switch role.Role {
		case models.RoleFranchisee:
			var franchiseID int64
			franchiseID, err = db.resolveID(ctx, conn, "name", role.Object, "franchises")
			if err != nil {
				return nil, err
			}
			_, err = conn.ExecContext(ctx,
				`INSERT INTO user_roles (user_id, role, object_id) VALUES ($1, $2, $3)`,
				user.ID, role.Role, franchiseID)
			if err != nil {
				return nil, apperrors.NewStoreError("inserting role", err)
			}
			user.Roles[i].ObjectID = franchiseID
		default:
			_, err = conn.ExecContext(ctx,
				`INSERT INTO user_roles (user_id, role, object_id) VALUES ($1, $2, $3)`,
				user.ID, role.Role, int64(0))
			if err != nil {
				return nil, apperrors.NewStoreError("inserting role", err)
			}
		}
	}

	user.Password = ""
	return &user, nil
}

// GetUser authenticates by email and password and returns the user with
// all role assignments attached and the password stripped.
func (db *DB) GetUser(ctx context.Context, email, password string) (u *models.User, err error) {
	defer db.observe(ctx, "getUser", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	var user models.User
	var digest string
	err = conn.QueryRowContext(ctx,
		`SELECT id, name, email, password FROM users WHERE email=$1`, email).
		Scan(&user.ID, &user.Name, &user.Email, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.TrackAuthentication(false)
		return nil, apperrors.NewNotFound(fmt.Sprintf("unknown user %s", email))
	}
	if err != nil {
		return nil, apperrors.NewStoreError("loading user", err)
	}

	if !db.checkPassword(password, digest) {
		metrics.TrackAuthentication(false)
		return nil, apperrors.NewInvalidCredentials()
	}
	metrics.TrackAuthentication(true)

	user.Roles, err = db.userRoles(ctx, conn, user.ID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser re-authenticates with the old password, persists the new
// email and/or password, then re-fetches the user as confirmation.
func (db *DB) UpdateUser(ctx context.Context, userID int64, email, newPassword, oldPassword string) (u *models.User, err error) {
	defer db.observe(ctx, "updateUser", time.Now(), &err)

	lookupEmail, lookupPassword, err := db.applyUserUpdate(ctx, userID, email, newPassword, oldPassword)
	if err != nil {
		return nil, err
	}
	return db.GetUser(ctx, lookupEmail, lookupPassword)
}

// applyUserUpdate runs the authenticated update on its own connection and
// reports the credentials the confirmation fetch should use.
func (db *DB) applyUserUpdate(ctx context.Context, userID int64, email, newPassword, oldPassword string) (lookupEmail, lookupPassword string, err error) {
	conn, err := db.conn(ctx)
	if err != nil {
		return "", "", err
	}
	defer db.release(conn, &err)

	var storedEmail, digest string
	err = conn.QueryRowContext(ctx,
		`SELECT email, password FROM users WHERE id=$1`, userID).
		Scan(&storedEmail, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", apperrors.NewNotFound(fmt.Sprintf("unknown user %d", userID))
	}
	if err != nil {
		return "", "", apperrors.NewStoreError("loading user", err)
	}

	if !db.checkPassword(oldPassword, digest) {
		return "", "", apperrors.NewInvalidCredentials()
	}

	var sets []string
	var args []any
	if email != "" {
		args = append(args, email)
		sets = append(sets, fmt.Sprintf("email=$%d", len(args)))
	}
	if newPassword != "" {
		var newDigest string
		newDigest, err = db.hashPassword(newPassword)
		if err != nil {
			return "", "", err
		}
		args = append(args, newDigest)
		sets = append(sets, fmt.Sprintf("password=$%d", len(args)))
	}
	if len(sets) > 0 {
		args = append(args, userID)
		stmt := fmt.Sprintf(`UPDATE users SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))
		if _, err = conn.ExecContext(ctx, stmt, args...); err != nil {
			return "", "", apperrors.NewStoreError("updating user", err)
		}
	}

	lookupEmail = storedEmail
	if email != "" {
		lookupEmail = email
	}
	lookupPassword = oldPassword
	if newPassword != "" {
		lookupPassword = newPassword
	}
	return lookupEmail, lookupPassword, nil
}

func (db *DB) userRoles(ctx context.Context, q querier, userID int64) ([]models.Role, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT role, object_id FROM user_roles WHERE user_id=$1`, userID)
	if err != nil {
		return nil, apperrors.NewStoreError("loading roles", err)
	}
	defer rows.Close()

	roles := []models.Role{}
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.Role, &r.ObjectID); err != nil {
			return nil, apperrors.NewStoreError("scanning role", err)
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("loading roles", err)
	}
	return roles, nil
}
