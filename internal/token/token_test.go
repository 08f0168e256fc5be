package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityhq/backend/internal/token"
)

const testSecret = "test-signing-secret"

func newCodec() *token.Codec {
	return token.NewCodec(testSecret, time.Hour, 7*24*time.Hour)
}

func TestIssueAccessToken_Verifies(t *testing.T) {
	codec := newCodec()

	tok, expiresIn, err := codec.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := codec.Verify(tok, token.ClassAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Empty(t, claims.TokenType)
}

func TestIssueRefreshToken_Verifies(t *testing.T) {
	codec := newCodec()

	tok, err := codec.IssueRefreshToken("user-1", "a@x.com")
	require.NoError(t, err)

	claims, err := codec.Verify(tok, token.ClassRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestVerify_RejectsWrongClass(t *testing.T) {
	codec := newCodec()

	accessTok, _, err := codec.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)
	refreshTok, err := codec.IssueRefreshToken("user-1", "a@x.com")
	require.NoError(t, err)

	// A refresh token must never pass as an access token, and vice versa.
	_, err = codec.Verify(refreshTok, token.ClassAccess)
	assert.ErrorIs(t, err, token.ErrInvalidToken)

	_, err = codec.Verify(accessTok, token.ClassRefresh)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerify_RejectsExpired(t *testing.T) {
	codec := token.NewCodec(testSecret, -time.Minute, -time.Minute)

	tok, _, err := codec.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)

	_, err = codec.Verify(tok, token.ClassAccess)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	codec := newCodec()
	other := token.NewCodec("different-secret", time.Hour, time.Hour)

	tok, _, err := other.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)

	_, err = codec.Verify(tok, token.ClassAccess)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerify_RejectsMalformed(t *testing.T) {
	codec := newCodec()

	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Verify(bad, token.ClassAccess)
		assert.ErrorIs(t, err, token.ErrInvalidToken, "input %q", bad)
	}
}

func TestVerify_RejectsMissingSubject(t *testing.T) {
	codec := newCodec()

	tok, _, err := codec.IssueAccessToken("", "a@x.com")
	require.NoError(t, err)

	_, err = codec.Verify(tok, token.ClassAccess)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}
