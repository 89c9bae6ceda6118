package database

import (
	"context"
	"fmt"
	"testing"

	apperrors "pizza-service/internal/common/errors"
	"pizza-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMenu(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(q(`SELECT id, title, description, image, price FROM menu_items`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "image", "price"}).
			AddRow(int64(1), "Veggie", "A garden of delight", "pizza1.png", 0.0038).
			AddRow(int64(2), "Pepperoni", "Spicy treat", "pizza2.png", 0.0042))

	items, err := db.GetMenu(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Veggie", items[0].Title)
	assert.Equal(t, 0.0042, items[1].Price)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMenu_Empty(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(q(`SELECT id, title, description, image, price FROM menu_items`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "image", "price"}))

	items, err := db.GetMenu(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, items)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMenuItem(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(q(`INSERT INTO menu_items (title, description, image, price) VALUES ($1, $2, $3, $4) RETURNING id`)).
		WithArgs("Student", "No topping, no sauce, just carbs", "pizza9.png", 0.0001).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	created, err := db.AddMenuItem(context.Background(), models.MenuItem{
		Title:       "Student",
		Description: "No topping, no sauce, just carbs",
		Image:       "pizza9.png",
		Price:       0.0001,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, "Student", created.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMenuItem_InsertFailure(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(q(`INSERT INTO menu_items (title, description, image, price) VALUES ($1, $2, $3, $4) RETURNING id`)).
		WithArgs("Student", "No topping, no sauce, just carbs", "pizza9.png", 0.0001).
		WillReturnError(fmt.Errorf("disk full"))

	_, err := db.AddMenuItem(context.Background(), models.MenuItem{
		Title:       "Student",
		Description: "No topping, no sauce, just carbs",
		Image:       "pizza9.png",
		Price:       0.0001,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreError(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
