package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/jobfinder-service/internal/domain"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

func newTestApp(t *testing.T, tm *TokenManager, store RevocationStore, roles ...domain.Role) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": domainErr.Code})
		},
	})
	middleware := NewAuthMiddleware(tm, store)
	app.Get("/protected", middleware.Handle, RequireRole(roles...), func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.SendString(principal.ID)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	app := newTestApp(t, tm, NewMemoryRevocationStore(time.Hour))

	status, body := doRequest(t, app, "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Contains(t, body, "MISSING_TOKEN")
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	app := newTestApp(t, tm, NewMemoryRevocationStore(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	app := newTestApp(t, tm, NewMemoryRevocationStore(time.Hour))

	status, body := doRequest(t, app, "garbage")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Contains(t, body, "INVALID_TOKEN")
}

func TestAuthMiddlewareRevokedReadsAsInvalid(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	store := NewMemoryRevocationStore(time.Hour)
	app := newTestApp(t, tm, store)

	token, _, err := tm.Issue("user-1", "alice", []domain.Role{domain.RoleUser}, 0)
	require.NoError(t, err)

	status, _ := doRequest(t, app, token)
	require.Equal(t, http.StatusOK, status)

	claims, err := tm.Decode(token)
	require.NoError(t, err)
	require.NoError(t, store.Revoke(context.Background(), claims.ID))

	status, body := doRequest(t, app, token)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Contains(t, body, "INVALID_TOKEN", "revocation must be indistinguishable from invalidity")
}

func TestAuthMiddlewareRejectsEmptyRoles(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	app := newTestApp(t, tm, NewMemoryRevocationStore(time.Hour))

	token, _, err := tm.Issue("user-1", "alice", nil, 0)
	require.NoError(t, err)

	status, body := doRequest(t, app, token)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Contains(t, body, "TOKEN_ROLE_MISSING")
}

func TestRequireRoleCaseInsensitive(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	app := newTestApp(t, tm, NewMemoryRevocationStore(time.Hour), domain.RoleOrganization)

	token, _, err := tm.Issue("org-1", "acme", []domain.Role{domain.Role("organization")}, 0)
	require.NoError(t, err)

	status, body := doRequest(t, app, token)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "org-1", body)
}

func TestRequireRoleForbidsWrongRole(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	app := newTestApp(t, tm, NewMemoryRevocationStore(time.Hour), domain.RoleOrganization)

	token, _, err := tm.Issue("user-1", "alice", []domain.Role{domain.RoleUser}, 0)
	require.NoError(t, err)

	status, body := doRequest(t, app, token)
	require.Equal(t, http.StatusForbidden, status)
	require.Contains(t, body, "INSUFFICIENT_PERMISSION")
}
