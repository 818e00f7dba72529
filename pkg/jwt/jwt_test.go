package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func TestGenerateYParse(t *testing.T) {
	tok, err := Generate(testSecret, "auth0|123", "dueña@tienda.co", "idp", 5)
	require.NoError(t, err)

	claims, err := Parse(testSecret, "idp", tok)
	require.NoError(t, err)
	assert.Equal(t, "auth0|123", claims.Subject)
	assert.Equal(t, "dueña@tienda.co", claims.Email)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate(testSecret, "u1", "", "", 5)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", "", tok)
	assert.Error(t, err)
}

func TestParse_IssuerDistinto(t *testing.T) {
	tok, err := Generate(testSecret, "u1", "", "idp-a", 5)
	require.NoError(t, err)

	_, err = Parse(testSecret, "idp-b", tok)
	assert.Error(t, err)
}

func TestParseUnverified_RechazaExpirado(t *testing.T) {
	tok, err := Generate(testSecret, "u1", "", "", -1)
	require.NoError(t, err)

	_, err = ParseUnverified(tok)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestParseUnverified_SinSubject(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseUnverified(tok)
	assert.ErrorIs(t, err, ErrMissingSubject)
}
