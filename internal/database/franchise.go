package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "pizza-service/internal/common/errors"
	"pizza-service/internal/models"

	"github.com/lib/pq"
)

// CreateFranchise resolves every admin by email, inserts the franchise row
// and one franchise-scoped role per admin, all inside one transaction. An
// unknown admin email fails with NotFound before any state survives.
func (db *DB) CreateFranchise(ctx context.Context, franchise models.Franchise) (created *models.Franchise, err error) {
	defer db.observe(ctx, "createFranchise", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewStoreError("beginning transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, admin := range franchise.Admins {
		row := tx.QueryRowContext(ctx,
			`SELECT id, name FROM users WHERE email=$1`, admin.Email)
		err = row.Scan(&franchise.Admins[i].ID, &franchise.Admins[i].Name)
		if errors.Is(err, sql.ErrNoRows) {
			err = apperrors.NewNotFound(fmt.Sprintf("admin user must already exist: %s", admin.Email))
			return nil, err
		}
		if err != nil {
			err = apperrors.NewStoreError("resolving admin", err)
			return nil, err
		}
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO franchises (name) VALUES ($1) RETURNING id`, franchise.Name).
		Scan(&franchise.ID)
	if err != nil {
		err = apperrors.NewStoreError("inserting franchise", err)
		return nil, err
	}

	for _, admin := range franchise.Admins {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role, object_id) VALUES ($1, $2, $3)`,
			admin.ID, models.RoleFranchisee, franchise.ID)
		if err != nil {
			err = apperrors.NewStoreError("inserting franchise role", err)
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		err = apperrors.NewStoreError("committing franchise", err)
		return nil, err
	}
	return &franchise, nil
}

// DeleteFranchise removes the franchise, its stores and its role
// assignments in one transaction. Any statement failure rolls everything
// back and surfaces the fixed deletion-failed error; the underlying cause
// stays wrapped for logs only.
func (db *DB) DeleteFranchise(ctx context.Context, franchiseID int64) (err error) {
	defer db.observe(ctx, "deleteFranchise", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return err
	}
	defer db.release(conn, &err)

	tx, txErr := conn.BeginTx(ctx, nil)
	if txErr != nil {
		err = apperrors.NewFranchiseDeleteFailed(txErr)
		return err
	}

	statements := []struct {
		query string
		args  []any
	}{
		{`DELETE FROM stores WHERE franchise_id=$1`, []any{franchiseID}},
		{`DELETE FROM user_roles WHERE object_id=$1`, []any{franchiseID}},
		{`DELETE FROM franchises WHERE id=$1`, []any{franchiseID}},
	}
	for _, stmt := range statements {
		if _, stmtErr := tx.ExecContext(ctx, stmt.query, stmt.args...); stmtErr != nil {
			_ = tx.Rollback()
			db.log.Warn("franchise deletion rolled back", map[string]interface{}{
				"franchiseId": franchiseID,
				"error":       stmtErr.Error(),
			})
			err = apperrors.NewFranchiseDeleteFailed(stmtErr)
			return err
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = apperrors.NewFranchiseDeleteFailed(commitErr)
		return err
	}
	return nil
}

// GetFranchise fills in the franchise's admins and its stores with each
// store's aggregate revenue. Stores without orders report zero revenue.
func (db *DB) GetFranchise(ctx context.Context, franchise *models.Franchise) (f *models.Franchise, err error) {
	defer db.observe(ctx, "getFranchise", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	franchise.Admins, err = db.franchiseAdmins(ctx, conn, franchise.ID)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx,
		`SELECT s.id, s.name, COALESCE(SUM(oi.price), 0) AS total_revenue
		 FROM stores AS s
		 LEFT JOIN diner_orders AS o ON s.id=o.store_id
		 LEFT JOIN order_items AS oi ON o.id=oi.order_id
		 WHERE s.franchise_id=$1
		 GROUP BY s.id, s.name`, franchise.ID)
	if err != nil {
		return nil, apperrors.NewStoreError("loading stores", err)
	}
	defer rows.Close()

	franchise.Stores = []models.Store{}
	for rows.Next() {
		var store models.Store
		if err = rows.Scan(&store.ID, &store.Name, &store.TotalRevenue); err != nil {
			return nil, apperrors.NewStoreError("scanning store", err)
		}
		franchise.Stores = append(franchise.Stores, store)
	}
	if err = rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("loading stores", err)
	}
	return franchise, nil
}

func (db *DB) franchiseAdmins(ctx context.Context, q querier, franchiseID int64) ([]models.User, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT u.id, u.name, u.email
		 FROM user_roles AS ur
		 JOIN users AS u ON u.id=ur.user_id
		 WHERE ur.object_id=$1 AND ur.role=$2`, franchiseID, models.RoleFranchisee)
	if err != nil {
		return nil, apperrors.NewStoreError("loading franchise admins", err)
	}
	defer rows.Close()

	admins := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, apperrors.NewStoreError("scanning franchise admin", err)
		}
		admins = append(admins, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("loading franchise admins", err)
	}
	return admins, nil
}

// GetFranchises lists every franchise with its stores. A global admin gets
// full enrichment (admins and per-store revenue); other callers get the
// plain store list. This branch is the single point deployments with
// stricter visibility requirements should tighten.
func (db *DB) GetFranchises(ctx context.Context, caller *models.User) (franchises []models.Franchise, err error) {
	defer db.observe(ctx, "getFranchises", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	rows, err := conn.QueryContext(ctx, `SELECT id, name FROM franchises`)
	if err != nil {
		return nil, apperrors.NewStoreError("loading franchises", err)
	}

	franchises = []models.Franchise{}
	for rows.Next() {
		var f models.Franchise
		if err = rows.Scan(&f.ID, &f.Name); err != nil {
			rows.Close()
			return nil, apperrors.NewStoreError("scanning franchise", err)
		}
		franchises = append(franchises, f)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, apperrors.NewStoreError("loading franchises", err)
	}
	rows.Close()

	if caller.IsRole(models.RoleAdmin) {
		for i := range franchises {
			if _, err = db.GetFranchise(ctx, &franchises[i]); err != nil {
				return nil, err
			}
		}
		return franchises, nil
	}

	for i := range franchises {
		franchises[i].Stores, err = db.plainStores(ctx, conn, franchises[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return franchises, nil
}

func (db *DB) plainStores(ctx context.Context, q querier, franchiseID int64) ([]models.Store, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name FROM stores WHERE franchise_id=$1`, franchiseID)
	if err != nil {
		return nil, apperrors.NewStoreError("loading stores", err)
	}
	defer rows.Close()

	stores := []models.Store{}
	for rows.Next() {
		var s models.Store
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, apperrors.NewStoreError("scanning store", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("loading stores", err)
	}
	return stores, nil
}

// GetUserFranchises returns the franchises the user administers, each
// fully enriched. A user with no franchisee roles yields an empty list
// without further queries.
func (db *DB) GetUserFranchises(ctx context.Context, userID int64) (franchises []models.Franchise, err error) {
	defer db.observe(ctx, "getUserFranchises", time.Now(), &err)

	ids, err := db.userFranchiseIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Franchise{}, nil
	}

	franchises, err = db.franchisesByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range franchises {
		if _, err = db.GetFranchise(ctx, &franchises[i]); err != nil {
			return nil, err
		}
	}
	return franchises, nil
}

func (db *DB) userFranchiseIDs(ctx context.Context, userID int64) (ids []int64, err error) {
	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	rows, err := conn.QueryContext(ctx,
		`SELECT object_id FROM user_roles WHERE role=$1 AND user_id=$2`,
		models.RoleFranchisee, userID)
	if err != nil {
		return nil, apperrors.NewStoreError("loading franchise roles", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, apperrors.NewStoreError("scanning franchise role", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("loading franchise roles", err)
	}
	return ids, nil
}

func (db *DB) franchisesByID(ctx context.Context, ids []int64) (franchises []models.Franchise, err error) {
	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	rows, err := conn.QueryContext(ctx,
		`SELECT id, name FROM franchises WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, apperrors.NewStoreError("loading franchises", err)
	}
	defer rows.Close()

	franchises = []models.Franchise{}
	for rows.Next() {
		var f models.Franchise
		if err = rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, apperrors.NewStoreError("scanning franchise", err)
		}
		franchises = append(franchises, f)
	}
	if err = rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("loading franchises", err)
	}
	return franchises, nil
}

// CreateStore inserts a store under the franchise and returns it with the
// new id.
func (db *DB) CreateStore(ctx context.Context, franchiseID int64, store models.Store) (created *models.Store, err error) {
	defer db.observe(ctx, "createStore", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	err = conn.QueryRowContext(ctx,
		`INSERT INTO stores (franchise_id, name) VALUES ($1, $2) RETURNING id`,
		franchiseID, store.Name).Scan(&store.ID)
	if err != nil {
		return nil, apperrors.NewStoreError("inserting store", err)
	}
	store.FranchiseID = franchiseID
	return &store, nil
}

// DeleteStore removes the store, scoped by both franchise and store id so
// a store can only be removed through its owning franchise.
func (db *DB) DeleteStore(ctx context.Context, franchiseID, storeID int64) (err error) {
	defer db.observe(ctx, "deleteStore", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return err
	}
	defer db.release(conn, &err)

	_, err = conn.ExecContext(ctx,
		`DELETE FROM stores WHERE franchise_id=$1 AND id=$2`, franchiseID, storeID)
	if err != nil {
		return apperrors.NewStoreError("deleting store", err)
	}
	return nil
}
