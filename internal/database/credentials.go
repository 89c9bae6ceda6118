package database

import (
	apperrors "pizza-service/internal/common/errors"

	"golang.org/x/crypto/bcrypt"
)

// hashPassword derives a salted one-way digest at the configured work
// factor. Digests never leave this package.
func (db *DB) hashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), db.bcryptCost)
	if err != nil {
		return "", apperrors.NewStoreError("hashing password", err)
	}
	return string(digest), nil
}

// checkPassword reports whether password matches the stored digest.
func (db *DB) checkPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
