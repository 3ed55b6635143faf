package types

import (
	"time"

	"github.com/google/uuid"
)

// ClinicSettings is the single configuration record for the practice.
type ClinicSettings struct {
	ID         uuid.UUID `json:"id"`
	ClinicName string    `json:"clinic_name"`
	DoctorName string    `json:"doctor_name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	Currency   string    `json:"currency"`
	Language   string    `json:"language"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ClinicSettingsPatch carries only the fields being changed.
type ClinicSettingsPatch struct {
	ClinicName *string `json:"clinic_name,omitempty" validate:"omitempty,min=2"`
	DoctorName *string `json:"doctor_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	Currency   *string `json:"currency,omitempty" validate:"omitempty,len=3"`
	Language   *string `json:"language,omitempty" validate:"omitempty,oneof=ar en"`
}
