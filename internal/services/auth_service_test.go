package services_test

import (
	"testing"
	"time"

	"productapi/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
)

const testJWTSecret = "test_jwt_secret"

func signToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestNewTokenVerifier(t *testing.T) {
	assert.IsType(t, services.PrefixVerifier{}, services.NewTokenVerifier(""))
	assert.IsType(t, &services.JWTVerifier{}, services.NewTokenVerifier(testJWTSecret))
}

func TestPrefixVerifier_AcceptsAnything(t *testing.T) {
	v := services.PrefixVerifier{}
	assert.NoError(t, v.VerifyToken("anything"))
	assert.NoError(t, v.VerifyToken(""))
}

func TestJWTVerifier_VerifyToken(t *testing.T) {
	v := services.NewJWTVerifier(testJWTSecret)

	// Valid token
	assert.NoError(t, v.VerifyToken(signToken(t, testJWTSecret, time.Now().Add(time.Hour))))

	// Malformed token
	err := v.VerifyToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Wrong secret
	err = v.VerifyToken(signToken(t, "other_secret", time.Now().Add(time.Hour)))
	assert.Error(t, err)

	// Expired token
	err = v.VerifyToken(signToken(t, testJWTSecret, time.Now().Add(-time.Hour)))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}
