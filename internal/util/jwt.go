package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the bearer token payload. RegisteredClaims.ID carries the
// server-side session id used for revocation.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenSpec describes a token to mint.
type TokenSpec struct {
	UserID    string
	Role      string
	SessionID string
	Issuer    string
	TTL       time.Duration
}

// GenerateToken signs an HS256 token; a non-positive TTL means 24h.
// It returns the token and its expiry.
func GenerateToken(secret string, spec TokenSpec) (string, time.Time, error) {
	ttl := spec.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID: spec.UserID,
		Role:   spec.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        spec.SessionID,
			Issuer:    spec.Issuer,
			Subject:   spec.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies signature, algorithm and expiry and returns the claims.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
