package security

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")

const defaultTokenTTL = 7 * 24 * time.Hour

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	return []byte(secret), nil
}

// Award signs a token for username. ttl <= 0 means seven days.
func Award(username string, ttl time.Duration) (string, error) {
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	now := time.Now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ParseToken verifies tokenStr and returns its claims.
func ParseToken(tokenStr string) (*jwt.Token, *Claims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if token == nil || !token.Valid || claims.Username == "" {
		return nil, nil, jwt.ErrTokenInvalidClaims
	}
	return token, claims, nil
}
