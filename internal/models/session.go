package models

// AuthSession marks a token as active. Only the derived token signature is
// persisted, never the raw token; absence of a row means logged out.
type AuthSession struct {
	TokenSignature string `json:"-" db:"token"`
	UserID         int64  `json:"userId" db:"user_id"`
}
