package domain

import (
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser         Role = "USER"
	RoleOrganization Role = "ORGANIZATION"
)

// ValidRole reports whether the value names a member of the closed role set,
// ignoring case.
func ValidRole(value string) bool {
	switch Role(strings.ToUpper(value)) {
	case RoleUser, RoleOrganization:
		return true
	}
	return false
}

// User is the domain model for both job seekers and organizations.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	FirstName    *string
	LastName     *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
