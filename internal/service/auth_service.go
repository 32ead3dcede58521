package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/jobfinder-service/internal/auth"
	"github.com/spec-kit/jobfinder-service/internal/config"
	"github.com/spec-kit/jobfinder-service/internal/domain"
	"github.com/spec-kit/jobfinder-service/internal/repository"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	revocations auth.RevocationStore
	bcryptCost  int
}

// AuthDependencies encapsulates collaborator requirements.
type AuthDependencies struct {
	UserRepo        repository.UserRepository
	RevocationStore auth.RevocationStore
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.UserRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revocations: deps.RevocationStore,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Role      string
	FirstName *string
	LastName  *string
}

// Register creates a new account after validating the role against the
// closed set and the username/email uniqueness.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if !domain.ValidRole(input.Role) {
		return nil, apperrors.NewInvalidRequestState("role must be USER or ORGANIZATION", map[string]any{"role": input.Role})
	}

	if _, err := s.users.GetByCredential(ctx, input.Username); err == nil {
		return nil, apperrors.NewConflict("username already taken", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.users.GetByCredential(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.Role(strings.ToUpper(input.Role)),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by username or email and issues a token.
func (s *AuthService) Login(ctx context.Context, credential, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByCredential(ctx, credential)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account is deactivated")
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, user.Username, []domain.Role{user.Role}, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Logout revokes the presented token's jti. The token stops being honored
// immediately even though it has not yet expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.NewInvalidToken()
	}
	return s.revocations.Revoke(ctx, claims.ID)
}

// GetProfile returns the account for the authenticated principal.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// ProfileUpdateInput carries optional profile changes.
type ProfileUpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

// UpdateProfile applies the provided fields, enforcing username/email
// uniqueness.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != user.Username {
		if other, err := s.users.GetByCredential(ctx, *input.Username); err == nil && other.ID != user.ID {
			return nil, apperrors.NewConflict("username already taken", nil)
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		user.Username = *input.Username
	}
	if input.Email != nil && *input.Email != user.Email {
		if other, err := s.users.GetByCredential(ctx, *input.Email); err == nil && other.ID != user.ID {
			return nil, apperrors.NewConflict("email already registered", nil)
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = input.FirstName
	}
	if input.LastName != nil {
		user.LastName = input.LastName
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
