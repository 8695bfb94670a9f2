package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateJWT("secret", 42)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, RoleUser, claims.Role)

	_, err = ValidateToken("other", token)
	assert.Error(t, err)
}

func TestAdminToken(t *testing.T) {
	token, err := GenerateAdminJWT("secret")
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Zero(t, claims.UserID)
}

func TestEmptySecret(t *testing.T) {
	_, err := GenerateJWT("", 1)
	assert.Error(t, err)
}
