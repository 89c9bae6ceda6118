// Package token mints and validates the session tokens whose trailing
// signature segment the session registry persists.
package token

import (
	"errors"
	"time"

	"pizza-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims embeds the authenticated user in the token payload.
type Claims struct {
	User models.User `json:"user"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Mint signs an HS256 token for the user. The password field is never
// included; callers pass repository-shaped users which already have it
// stripped, and Mint clears it again regardless.
func (s *Service) Mint(user models.User) (string, error) {
	user.Password = ""
	claims := Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates the token signature and returns the embedded user.
func (s *Service) Parse(tokenStr string) (*models.User, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalidToken
	}
	return &claims.User, nil
}
