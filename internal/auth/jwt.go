package auth

import (
	"errors"
	"fmt"
	"time"

	"billcraft-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("geçersiz veya süresi dolmuş token")

// Claims carries the owner id in Subject and the user's token version at
// issue time. A token whose version is behind the stored one is revoked.
type Claims struct {
	Version int    `json:"ver"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// OwnerID parses the subject claim.
func (c *Claims) OwnerID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

func GenerateToken(secret string, ttl time.Duration, user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Version: user.TokenVersion,
		Email:   user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("geçersiz imzalama yöntemi")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if _, err := claims.OwnerID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
