package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the credential store.
// Password holds the bcrypt hash and is never serialized.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicUser is the sanitized view of a User, safe for any external response.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sanitize drops the password hash.
func (u *User) Sanitize() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NormalizeEmail lower-cases and trims an address before it hits the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
