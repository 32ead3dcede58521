package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/jobfinder-service/internal/domain"
)

func TestIssueAndDecode(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.Issue("user-1", "alice", []domain.Role{domain.RoleUser}, 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, expiresAt.After(time.Now()))

	claims, err := tm.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.SubjectID)
	require.Equal(t, "alice", claims.UserName)
	require.Equal(t, []domain.Role{domain.RoleUser}, claims.Roles)
	require.NotEmpty(t, claims.ID, "token must carry a jti")
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	require.True(t, claims.ExpiresAt.Time.After(claims.IssuedAt.Time))
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).Issue("user-1", "alice", []domain.Role{domain.RoleUser}, 0)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).Decode(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsTampered(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	token, _, err := tm.Issue("user-1", "alice", []domain.Role{domain.RoleUser}, 0)
	require.NoError(t, err)

	_, err = tm.Decode(token + "x")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.Decode("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	token, _, err := tm.Issue("user-1", "alice", []domain.Role{domain.RoleUser}, time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = tm.Decode(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsUnexpectedAlgorithm(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{SubjectID: "user-1"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.Decode(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
