package domain

import (
	"fmt"
	"time"
)

// UserRole distinguishes customers from administrators.
type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// ParseUserRole normalizes raw, defaulting to USER when empty.
func ParseUserRole(raw string) (UserRole, error) {
	switch r := UserRole(normalizeEnum(raw)); r {
	case "":
		return UserRoleUser, nil
	case UserRoleUser, UserRoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("invalid role %q", raw)
}

// User is a registered account.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
