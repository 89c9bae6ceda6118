package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "pizza-service/internal/common/errors"
	"pizza-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrders_FirstPage(t *testing.T) {
	db, mock := newTestDB(t)
	diner := &models.User{ID: 4}
	placed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q(`SELECT id, franchise_id, store_id, date FROM diner_orders WHERE diner_id=$1 LIMIT $2 OFFSET $3`)).
		WithArgs(int64(4), 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "franchise_id", "store_id", "date"}).
			AddRow(int64(100), int64(1), int64(2), placed).
			AddRow(int64(101), int64(1), int64(3), placed.Add(time.Hour)))
	mock.ExpectQuery(q(`SELECT id, menu_id, description, price FROM order_items WHERE order_id=$1`)).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "menu_id", "description", "price"}).
			AddRow(int64(1000), int64(1), "Veggie", 0.0038).
			AddRow(int64(1001), int64(2), "Pepperoni", 0.0042))
	mock.ExpectQuery(q(`SELECT id, menu_id, description, price FROM order_items WHERE order_id=$1`)).
		WithArgs(int64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "menu_id", "description", "price"}))

	page, err := db.GetOrders(context.Background(), diner, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(4), page.DinerID)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Orders, 2)

	// Items stay attached to the order that produced them.
	require.Len(t, page.Orders[0].Items, 2)
	assert.Equal(t, "Veggie", page.Orders[0].Items[0].Description)
	assert.Empty(t, page.Orders[1].Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrders_LaterPageOffset(t *testing.T) {
	db, mock := newTestDB(t)
	diner := &models.User{ID: 4}

	mock.ExpectQuery(q(`SELECT id, franchise_id, store_id, date FROM diner_orders WHERE diner_id=$1 LIMIT $2 OFFSET $3`)).
		WithArgs(int64(4), 10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "franchise_id", "store_id", "date"}))

	page, err := db.GetOrders(context.Background(), diner, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, page.Page)
	assert.Empty(t, page.Orders)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrders_PageBelowOneClampsToFirst(t *testing.T) {
	db, mock := newTestDB(t)
	diner := &models.User{ID: 4}

	mock.ExpectQuery(q(`SELECT id, franchise_id, store_id, date FROM diner_orders WHERE diner_id=$1 LIMIT $2 OFFSET $3`)).
		WithArgs(int64(4), 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "franchise_id", "store_id", "date"}))

	page, err := db.GetOrders(context.Background(), diner, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDinerOrder(t *testing.T) {
	db, mock := newTestDB(t)
	diner := &models.User{ID: 4}

	mock.ExpectQuery(q(`INSERT INTO diner_orders (diner_id, franchise_id, store_id, date) VALUES ($1, $2, $3, now()) RETURNING id`)).
		WithArgs(int64(4), int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(200)))
	mock.ExpectExec(q(`INSERT INTO order_items (order_id, menu_id, description, price) VALUES ($1, $2, $3, $4)`)).
		WithArgs(int64(200), int64(1), "Veggie", 0.0038).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO order_items (order_id, menu_id, description, price) VALUES ($1, $2, $3, $4)`)).
		WithArgs(int64(200), int64(2), "Pepperoni", 0.0042).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := db.AddDinerOrder(context.Background(), diner, models.DinerOrder{
		FranchiseID: 1,
		StoreID:     2,
		Items: []models.OrderItem{
			{MenuID: 1, Description: "Veggie", Price: 0.0038},
			{MenuID: 2, Description: "Pepperoni", Price: 0.0042},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(200), created.ID)
	assert.Equal(t, int64(4), created.DinerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDinerOrder_ItemInsertFailure(t *testing.T) {
	db, mock := newTestDB(t)
	diner := &models.User{ID: 4}

	mock.ExpectQuery(q(`INSERT INTO diner_orders (diner_id, franchise_id, store_id, date) VALUES ($1, $2, $3, now()) RETURNING id`)).
		WithArgs(int64(4), int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(200)))
	mock.ExpectExec(q(`INSERT INTO order_items (order_id, menu_id, description, price) VALUES ($1, $2, $3, $4)`)).
		WithArgs(int64(200), int64(1), "Veggie", 0.0038).
		WillReturnError(fmt.Errorf("constraint violation"))

	_, err := db.AddDinerOrder(context.Background(), diner, models.DinerOrder{
		FranchiseID: 1,
		StoreID:     2,
		Items: []models.OrderItem{
			{MenuID: 1, Description: "Veggie", Price: 0.0038},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreError(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
