package model

import (
	"time"

	"github.com/google/uuid"
)

// Role determines which commands and views a user may access.
// A user is assigned exactly one role at registration and never changes it.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return Role(raw), true
	}
	return "", false
}

// User represents a registered account with exactly one role.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the signup payload. Role must be teacher or student;
// admins are provisioned from the CLI.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
