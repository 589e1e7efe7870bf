package models

import "time"

// User is an account that can own, be assigned to, and comment on cards.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Roles carried in the session token. Admin is required for column
// management endpoints.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)
