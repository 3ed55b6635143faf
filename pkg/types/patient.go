package types

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the demographic record the rest of the domain links against.
type Patient struct {
	ID          uuid.UUID  `json:"id"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Address     string     `json:"address,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PatientInput is the create payload coming out of the add-patient dialog.
type PatientInput struct {
	FullName    string     `json:"full_name" validate:"required,min=2"`
	Phone       string     `json:"phone,omitempty" validate:"omitempty,min=5"`
	Email       string     `json:"email,omitempty" validate:"omitempty,email"`
	Gender      string     `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Address     string     `json:"address,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// PatientPatch carries only the fields the edit dialog changed.
type PatientPatch struct {
	FullName    *string    `json:"full_name,omitempty" validate:"omitempty,min=2"`
	Phone       *string    `json:"phone,omitempty"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email"`
	Gender      *string    `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}
