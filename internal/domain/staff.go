package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is carried in access tokens
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleOfficer   Role = "OFFICER"
	RolePensioner Role = "PENSIONER"
)

// StaffUser is an admin or verification officer account
type StaffUser struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type StaffLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PensionerLoginRequest struct {
	PensionID string `json:"pension_id" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type CreateStaffRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     Role   `json:"role" validate:"required,oneof=ADMIN OFFICER"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      Role      `json:"role"`
}
