package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"qbit-backend/internal/common/clock"
)

// TokenIssuer mints and parses HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	clock  clock.Clock
}

func NewTokenIssuer(cfg *Config, c clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.TokenTTL,
		issuer: cfg.Issuer,
		clock:  clock.Or(c),
	}
}

func (t *TokenIssuer) Issue(userID int, role string) (string, *Claims, error) {
	now := t.clock.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse validates signature, algorithm, issuer and expiry.
func (t *TokenIssuer) Parse(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.clock.Now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RevocationKey is the jti when present, else the raw token.
func RevocationKey(token string, claims *Claims) string {
	if claims != nil && claims.ID != "" {
		return claims.ID
	}
	return token
}
