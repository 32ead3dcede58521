package dto

import (
	"time"

	"github.com/spec-kit/jobfinder-service/internal/domain"
)

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=64"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=128"`
	Role      string  `json:"role" validate:"required"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=128"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=128"`
}

// LoginRequest authenticates by username or email.
type LoginRequest struct {
	Credential string `json:"credential" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UpdateProfileRequest changes profile fields; all optional.
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=64"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=128"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=128"`
}

// ChangePasswordRequest rotates the account password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// UserResponse is the public account shape.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
