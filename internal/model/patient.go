package model

import "time"

type Patient struct {
	Base
	Code           string     `db:"code" json:"code"`
	Name           string     `db:"name" json:"name"`
	Phone          string     `db:"phone" json:"phone"`
	Email          *string    `db:"email" json:"email,omitempty"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender         *string    `db:"gender" json:"gender,omitempty"`
	Address        *string    `db:"address" json:"address,omitempty"`
	Allergies      *string    `db:"allergies" json:"allergies,omitempty"`
	MedicalHistory *string    `db:"medical_history" json:"medical_history,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
}

type CreatePatientRequest struct {
	Name           string     `json:"name" binding:"required"`
	Phone          string     `json:"phone" binding:"required"`
	Email          *string    `json:"email" binding:"omitempty,email"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Gender         *string    `json:"gender"`
	Address        *string    `json:"address"`
	Allergies      *string    `json:"allergies"`
	MedicalHistory *string    `json:"medical_history"`
	Notes          *string    `json:"notes"`
}

// UpdatePatientRequest carries the full editable row; updates replace every
// editable column rather than merging.
type UpdatePatientRequest struct {
	Name           string     `json:"name" binding:"required"`
	Phone          string     `json:"phone" binding:"required"`
	Email          *string    `json:"email" binding:"omitempty,email"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Gender         *string    `json:"gender"`
	Address        *string    `json:"address"`
	Allergies      *string    `json:"allergies"`
	MedicalHistory *string    `json:"medical_history"`
	Notes          *string    `json:"notes"`
}
