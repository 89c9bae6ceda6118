package database

import (
	"context"
	"time"

	apperrors "pizza-service/internal/common/errors"
	"pizza-service/internal/models"
)

// GetMenu returns the full catalog. The catalog is expected to stay small,
// so there is no pagination.
func (db *DB) GetMenu(ctx context.Context) (items []models.MenuItem, err error) {
	defer db.observe(ctx, "getMenu", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	rows, err := conn.QueryContext(ctx,
		`SELECT id, title, description, image, price FROM menu_items`)
	if err != nil {
		return nil, apperrors.NewStoreError("loading menu", err)
	}
	defer rows.Close()

	items = []models.MenuItem{}
	for rows.Next() {
		var item models.MenuItem
		if err = rows.Scan(&item.ID, &item.Title, &item.Description, &item.Image, &item.Price); err != nil {
			return nil, apperrors.NewStoreError("scanning menu item", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("loading menu", err)
	}
	return items, nil
}

// AddMenuItem inserts a catalog entry and returns it with the new id.
func (db *DB) AddMenuItem(ctx context.Context, item models.MenuItem) (created *models.MenuItem, err error) {
	defer db.observe(ctx, "addMenuItem", time.Now(), &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	err = conn.QueryRowContext(ctx,
		`INSERT INTO menu_items (title, description, image, price) VALUES ($1, $2, $3, $4) RETURNING id`,
		item.Title, item.Description, item.Image, item.Price).Scan(&item.ID)
	if err != nil {
		return nil, apperrors.NewStoreError("inserting menu item", err)
	}
	return &item, nil
}
