package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff member. Clinic membership lives in clinic_users.
type User struct {
	Base
	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name"`
	Password     string `db:"-" json:"password,omitempty"`
	PasswordHash string `db:"password_hash" json:"-"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// Session is the resolved identity of a request's caller. ClinicID is nil
// when the user has no clinic membership yet.
type Session struct {
	UserID   uuid.UUID  `json:"user_id"`
	Email    string     `json:"email"`
	ClinicID *uuid.UUID `json:"clinic_id,omitempty"`
}
