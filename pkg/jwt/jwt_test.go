package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/alumac/alumac-api/pkg/jwt"
)

const (
	secret = "test-secret"
	issuer = "alumac-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "Ana Díaz", "deposito", issuer, 5)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, issuer, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "Ana Díaz", claims.Name)
	assert.Equal(t, "deposito", claims.Role)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "x", "admin", issuer, -1)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, issuer, tok)
	assert.Error(t, err)
}

func TestParse_EmisorIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "x", "admin", "otro", 5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, issuer, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "x", "admin", issuer, 5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("otro-secret", issuer, tok)
	assert.Error(t, err)
}

func TestParse_SinSubject(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "", "x", "admin", issuer, 5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, issuer, tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u", "x", "admin", issuer, 5)
	assert.Error(t, err)
}
