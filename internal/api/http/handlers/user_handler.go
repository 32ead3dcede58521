package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobfinder-service/internal/api/dto"
	"github.com/spec-kit/jobfinder-service/internal/auth"
	"github.com/spec-kit/jobfinder-service/internal/service"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

// UserHandler serves account endpoints.
type UserHandler struct {
	auth *service.AuthService
}

// NewUserHandler constructs the handler.
func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{auth: authService}
}

// Register creates a new account.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login authenticates and issues a token.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, token, expiresAt, err := h.auth.Login(c.Context(), req.Credential, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		User:      dto.NewUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// Logout revokes the presented token.
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewInvalidToken()
	}
	if err := h.auth.Logout(c.Context(), claims); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me returns the authenticated account.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	user, err := h.auth.GetProfile(c.Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// UpdateMe modifies the authenticated account's profile.
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.auth.UpdateProfile(c.Context(), principal.ID, service.ProfileUpdateInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// ChangePassword rotates the account password.
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.Context(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "password updated"})
}
