// Package users manages accounts and their access roles.
package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/mannuking/Project-Radius/internal/policy"
)

// User is an account that can sign in and work a book of invoices.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	FullName     string      `json:"full_name"`
	Role         policy.Role `json:"role"`
	IsActive     bool        `json:"is_active"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Principal converts the account into its request identity.
func (u User) Principal() policy.Principal {
	return policy.Principal{
		ID:    u.ID,
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}
}
