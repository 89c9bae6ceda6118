package database

import (
	"context"
	"testing"

	apperrors "pizza-service/internal/common/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveID_Found(t *testing.T) {
	db, mock := newTestDB(t)
	ctx := context.Background()

	mock.ExpectQuery(q(`SELECT id FROM franchises WHERE name=$1`)).
		WithArgs("PizzaPocket").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	conn, err := db.conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	id, err := db.resolveID(ctx, conn, "name", "PizzaPocket", "franchises")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveID_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	ctx := context.Background()

	mock.ExpectQuery(q(`SELECT id FROM franchises WHERE name=$1`)).
		WithArgs("NoSuchFranchise").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	conn, err := db.conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, err = db.resolveID(ctx, conn, "name", "NoSuchFranchise", "franchises")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveID_RejectsUnknownIdentifiers(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	conn, err := db.conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	// Identifiers outside the allowlist never reach the database.
	_, err = db.resolveID(ctx, conn, "name", "x", "pg_catalog")
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreError(err))

	_, err = db.resolveID(ctx, conn, "password", "x", "users")
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreError(err))
}
