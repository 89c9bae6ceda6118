package database

import (
	"context"
	"time"

	apperrors "pizza-service/internal/common/errors"
	"pizza-service/internal/common/metrics"
	"pizza-service/internal/models"
)

// GetOrders returns one page of the diner's order history. The page size
// comes from configuration; each order carries its line items.
func (db *DB) GetOrders(ctx context.Context, user *models.User, page int) (op *models.OrderPage, err error) {
	defer db.observe(ctx, "getOrders", time.Now(), &err)

	if page < 1 {
		page = 1
	}

	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	offset := (page - 1) * db.listPerPage
	rows, err := conn.QueryContext(ctx,
		`SELECT id, franchise_id, store_id, date FROM diner_orders WHERE diner_id=$1 LIMIT $2 OFFSET $3`,
		user.ID, db.listPerPage, offset)
	if err != nil {
		return nil, apperrors.NewStoreError("loading orders", err)
	}

	orders := []models.DinerOrder{}
	for rows.Next() {
		var o models.DinerOrder
		if err = rows.Scan(&o.ID, &o.FranchiseID, &o.StoreID, &o.Date); err != nil {
			rows.Close()
			return nil, apperrors.NewStoreError("scanning order", err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, apperrors.NewStoreError("loading orders", err)
	}
	rows.Close()

	// Follow-up item queries run on the same connection, so the order
	// rows must be fully drained first.
	for i := range orders {
		orders[i].Items, err = db.orderItems(ctx, conn, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return &models.OrderPage{DinerID: user.ID, Orders: orders, Page: page}, nil
}

func (db *DB) orderItems(ctx context.Context, q querier, orderID int64) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, menu_id, description, price FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, apperrors.NewStoreError("loading order items", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.MenuID, &item.Description, &item.Price); err != nil {
			return nil, apperrors.NewStoreError("scanning order item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("loading order items", err)
	}
	return items, nil
}

// AddDinerOrder inserts the order with a store-assigned date, then its
// line items in the order given. Item inserts are sequential and not
// wrapped in a transaction; a failure surfaces as an error without
// rolling back earlier items.
func (db *DB) AddDinerOrder(ctx context.Context, user *models.User, order models.DinerOrder) (created *models.DinerOrder, err error) {
	start := time.Now()
	defer db.observe(ctx, "addDinerOrder", start, &err)

	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.release(conn, &err)

	err = conn.QueryRowContext(ctx,
		`INSERT INTO diner_orders (diner_id, franchise_id, store_id, date) VALUES ($1, $2, $3, now()) RETURNING id`,
		user.ID, order.FranchiseID, order.StoreID).Scan(&order.ID)
	if err != nil {
		return nil, apperrors.NewStoreError("inserting order", err)
	}

	var revenue float64
	for _, item := range order.Items {
		_, err = conn.ExecContext(ctx,
			`INSERT INTO order_items (order_id, menu_id, description, price) VALUES ($1, $2, $3, $4)`,
			order.ID, item.MenuID, item.Description, item.Price)
		if err != nil {
			return nil, apperrors.NewStoreError("inserting order item", err)
		}
		revenue += item.Price
	}

	metrics.TrackPurchase(len(order.Items), revenue, time.Since(start))
	order.DinerID = user.ID
	return &order, nil
}
