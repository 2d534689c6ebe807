package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system (matches user_role enum)
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// User represents a user account (matches users table)
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// IsBuyer returns true if user is a buyer
func (u *User) IsBuyer() bool {
	return u.Role == RoleBuyer
}

// IsSeller returns true if user is a seller
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

// IsAdmin returns true if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanListProjects returns true if user can list projects for sale
func (u *User) CanListProjects() bool {
	return u.IsSeller() || u.IsAdmin()
}

// IsValidRole checks if role is a known role value
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}
