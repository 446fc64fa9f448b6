package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

type Appointment struct {
	Base
	PatientID   uuid.UUID         `db:"patient_id" json:"patient_id"`
	DentistID   uuid.UUID         `db:"dentist_id" json:"dentist_id"`
	ScheduledAt time.Time         `db:"scheduled_at" json:"scheduled_at"`
	DurationMin int               `db:"duration_min" json:"duration_min"`
	Status      AppointmentStatus `db:"status" json:"status"`
	Reason      *string           `db:"reason" json:"reason,omitempty"`
	Notes       *string           `db:"notes" json:"notes,omitempty"`

	// joined for list responses
	PatientName *string `db:"patient_name" json:"patient_name,omitempty"`
	DentistName *string `db:"dentist_name" json:"dentist_name,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	DentistID   uuid.UUID `json:"dentist_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	DurationMin int       `json:"duration_min" binding:"required,min=5"`
	Reason      *string   `json:"reason"`
	Notes       *string   `json:"notes"`
}

type UpdateAppointmentRequest struct {
	PatientID   uuid.UUID         `json:"patient_id" binding:"required"`
	DentistID   uuid.UUID         `json:"dentist_id" binding:"required"`
	ScheduledAt time.Time         `json:"scheduled_at" binding:"required"`
	DurationMin int               `json:"duration_min" binding:"required,min=5"`
	Status      AppointmentStatus `json:"status" binding:"required"`
	Reason      *string           `json:"reason"`
	Notes       *string           `json:"notes"`
}

// AppointmentRequest is a public booking request awaiting triage by the
// front desk.
type AppointmentRequest struct {
	Base
	FullName    string     `db:"full_name" json:"full_name"`
	Phone       string     `db:"phone" json:"phone"`
	Email       *string    `db:"email" json:"email,omitempty"`
	PreferredAt *time.Time `db:"preferred_at" json:"preferred_at,omitempty"`
	Message     *string    `db:"message" json:"message,omitempty"`
	Handled     bool       `db:"handled" json:"handled"`
}

// AppointmentRequestInput is the public booking-request form; only full name
// and phone are mandatory.
type AppointmentRequestInput struct {
	FullName    string     `json:"full_name" binding:"required"`
	Phone       string     `json:"phone" binding:"required"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	PreferredAt *time.Time `json:"preferred_at"`
	Message     *string    `json:"message"`
}

type AppointmentFilter struct {
	ListFilter
	PatientID *uuid.UUID `form:"patient_id"`
	DentistID *uuid.UUID `form:"dentist_id"`
}
