package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	db, _ := newTestDB(t)

	digest, err := db.hashPassword("toomanysecrets")
	require.NoError(t, err)

	assert.NotEqual(t, "toomanysecrets", digest)
	assert.False(t, strings.Contains(digest, "toomanysecrets"))
	assert.True(t, db.checkPassword("toomanysecrets", digest))
}

func TestCheckPassword_Mismatch(t *testing.T) {
	db, _ := newTestDB(t)

	digest, err := db.hashPassword("toomanysecrets")
	require.NoError(t, err)

	assert.False(t, db.checkPassword("wrong", digest))
	assert.False(t, db.checkPassword("", digest))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	db, _ := newTestDB(t)

	first, err := db.hashPassword("toomanysecrets")
	require.NoError(t, err)
	second, err := db.hashPassword("toomanysecrets")
	require.NoError(t, err)

	// Salted digests differ even for identical inputs.
	assert.NotEqual(t, first, second)
}
