package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateULID(t *testing.T) {
	first := GenerateULID()
	second := GenerateULID()

	assert.Len(t, first, 26)
	assert.NotEqual(t, first, second)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken("test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["role"])
	assert.NotEmpty(t, claims["jti"])
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAdminToken("test-secret")
	require.NoError(t, err)

	_, err = ValidateJWT(token, "other-secret")
	assert.Error(t, err)
}
