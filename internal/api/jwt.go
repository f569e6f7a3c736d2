package api

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims identify the player behind a request. Tokens are minted by
// the identity provider in front of the arena (or by the server's
// -issue-token flag during development).
type sessionClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// TokenVerifier signs and validates HS256 session tokens.
type TokenVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewTokenVerifier uses secret as the HMAC key. An empty secret generates an
// in-memory key for development; tokens then stop working on restart.
func NewTokenVerifier(secret string) (*TokenVerifier, error) {
	key := []byte(strings.TrimSpace(secret))
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := crand.Read(key); err != nil {
			return nil, errors.New("failed to generate dev session secret")
		}
	}
	return &TokenVerifier{secret: key, now: time.Now}, nil
}

// Issue signs a token for userID valid for ttl.
func (v *TokenVerifier) Issue(userID, name string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: name,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Verify parses token and returns its claims. Tokens must carry a subject
// and an expiry.
func (v *TokenVerifier) Verify(token string) (*sessionClaims, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("token has no subject")
	}
	return &claims, nil
}
