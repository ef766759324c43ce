package models

import "time"

// AppUser is the persisted user record. PasswordHash never serializes;
// Role and IsAdmin are assigned by server policy only.
type AppUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}
