package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobfinder-service/internal/domain"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the authenticated identity derived from a validated token.
// It lives for one request and is never stored.
type Principal struct {
	ID       string
	Roles    []domain.Role
	UserName string
}

// HasRole reports case-insensitive membership of any principal role in the
// allowed set.
func (p *Principal) HasRole(allowed ...domain.Role) bool {
	for _, role := range p.Roles {
		for _, candidate := range allowed {
			if strings.EqualFold(string(role), string(candidate)) {
				return true
			}
		}
	}
	return false
}

// AuthMiddleware validates bearer tokens and derives principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	revocations RevocationStore
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, revocations RevocationStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revocations: revocations}
}

// Handle enforces authentication for protected routes. The checks run in a
// fixed order: presence, signature/structure, revocation, claim shape.
// Revoked tokens are reported as invalid so revocation state never leaks.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewMissingToken()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewMissingToken()
	}

	claims, err := m.tokens.Decode(parts[1])
	if err != nil {
		return apperrors.NewInvalidToken()
	}

	revoked, err := m.revocations.IsRevoked(c.Context(), claims.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if revoked {
		return apperrors.NewInvalidToken()
	}

	if len(claims.Roles) == 0 {
		return apperrors.NewTokenMissingRole()
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil ||
		!claims.ExpiresAt.Time.After(claims.IssuedAt.Time) {
		return apperrors.NewInvalidToken()
	}

	c.Locals(principalKey, &Principal{
		ID:       claims.SubjectID,
		Roles:    claims.Roles,
		UserName: claims.UserName,
	})
	c.Locals(tokenClaimsKey, claims)
	return c.Next()
}

const tokenClaimsKey = "auth_token_claims"

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// ClaimsFromContext retrieves the validated token claims, used by logout to
// learn the jti to revoke.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(tokenClaimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
