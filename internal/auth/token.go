package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wonny/warehouse/internal/contracts"
)

// ErrInvalidToken is returned for malformed, forged or expired tokens
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims identifies the caller of an authenticated request
type Claims struct {
	UserID int64          `json:"user_id"`
	Login  string         `json:"login"`
	Role   contracts.Role `json:"role"`
	jwt.RegisteredClaims
}

// HasRole reports whether the caller holds one of roles
func (c *Claims) HasRole(roles ...contracts.Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// TokenIssuer signs and verifies HS256 bearer tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for user
func (t *TokenIssuer) Issue(user *contracts.User) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)

	claims := &Claims{
		UserID: user.ID,
		Login:  user.Login,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Login,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies a token and returns its claims
func (t *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
