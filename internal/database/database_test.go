package database

import (
	"regexp"
	"testing"

	"pizza-service/internal/common/config"
	"pizza-service/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestDB wires a DB over a sqlmock handle. Bcrypt runs at MinCost so
// hashing in tests stays fast; production cost comes from configuration.
func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	cfg := &config.Config{}
	cfg.List.PerPage = 10
	cfg.Auth.BcryptCost = bcrypt.MinCost

	return New(&PostgresClient{DB: mockDB}, cfg, logger.NewTestLogger(t), nil), mock
}

// q anchors an exact query for sqlmock's regexp matcher.
func q(query string) string {
	return regexp.QuoteMeta(query)
}

// testDigest returns a bcrypt digest for password at the test work factor.
func testDigest(t *testing.T, password string) string {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(digest)
}
