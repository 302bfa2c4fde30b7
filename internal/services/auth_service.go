package services

import (
	"errors"
	"fmt"

	"github.com/dgrijalva/jwt-go"
)

// TokenVerifier decides whether a bearer token is acceptable.
type TokenVerifier interface {
	VerifyToken(token string) error
}

// PrefixVerifier accepts any token. The bearer prefix itself is checked by
// the middleware, so this is the stub behavior of the API.
type PrefixVerifier struct{}

// VerifyToken always succeeds.
func (PrefixVerifier) VerifyToken(string) error {
	return nil
}

// JWTVerifier accepts HS256-signed JWTs with a valid expiry.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a JWTVerifier for the shared secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// NewTokenVerifier returns a JWTVerifier when secret is set and a PrefixVerifier otherwise.
func NewTokenVerifier(secret string) TokenVerifier {
	if secret == "" {
		return PrefixVerifier{}
	}
	return NewJWTVerifier(secret)
}

// VerifyToken parses and validates a JWT token.
func (v *JWTVerifier) VerifyToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}
