package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/memoryengine/backend/internal/common"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("user-1", TokenKindAccess, testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := ParseToken(token, TokenKindAccess, testSecret)
	require.NoError(t, err)
	require.Equal(t, "user-1", subject)
}

func TestParseToken_KindMismatch(t *testing.T) {
	token, err := GenerateToken("user-1", TokenKindRefresh, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, TokenKindAccess, testSecret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", TokenKindAccess, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, TokenKindAccess, []byte("other-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("user-1", TokenKindAccess, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, TokenKindAccess, testSecret)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token", TokenKindAccess, testSecret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	require.True(t, CheckPassword("s3cret", hash))
	require.False(t, CheckPassword("wrong", hash))
	require.False(t, CheckPassword("s3cret", "not-a-bcrypt-hash"))
}
