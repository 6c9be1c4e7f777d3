package utils

import (
	"testing"

	"github.com/BerniceZTT/leadline_end/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash := HashPassword("admin123")

	// sha256十六进制输出，确定性
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashPassword("admin123"))
	assert.NotEqual(t, hash, HashPassword("admin124"))
}

func TestVerifyPassword(t *testing.T) {
	hashed := HashPassword("secret12")

	assert.True(t, VerifyPassword("secret12", hashed))
	assert.False(t, VerifyPassword("wrong", hashed))

	// 兼容存量明文密码
	assert.True(t, VerifyPassword("plaintext", "plaintext"))
	assert.False(t, VerifyPassword("plaintext", "other"))
}

func TestTokenRoundTrip(t *testing.T) {
	user := models.User{
		ID:          "u1",
		Email:       "user@leadline.io",
		DisplayName: "测试用户",
		Role:        models.UserRoleUSER,
	}

	token, err := GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["id"])
	assert.Equal(t, "user@leadline.io", claims["email"])
	assert.Equal(t, "测试用户", claims["name"])
	assert.Equal(t, "user", claims["role"])
}

func TestParseTokenInvalid(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
