package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyToken(t *testing.T) {
	tok, err := issueToken("a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	email, err := verifyToken(tok)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)
}

func TestVerifyToken_Expired(t *testing.T) {
	tok, err := issueTokenExpiring("a@x.com", -1*time.Minute)
	require.NoError(t, err)

	_, err = verifyToken(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyToken_Garbage(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := verifyToken(tok)
		require.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	claims := jwt.MapClaims{"email": "a@x.com", "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = verifyToken(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyToken_MissingEmailClaim(t *testing.T) {
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)

	_, err = verifyToken(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssueToken_DistinctPerCall(t *testing.T) {
	t1, err := issueTokenExpiring("a@x.com", time.Hour)
	require.NoError(t, err)
	t2, err := issueTokenExpiring("a@x.com", 2*time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)
}
