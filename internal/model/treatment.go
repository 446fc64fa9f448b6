package model

import (
	"time"

	"github.com/google/uuid"
)

type TreatmentPlanStatus string

const (
	TreatmentPlanStatusProposed  TreatmentPlanStatus = "proposed"
	TreatmentPlanStatusAccepted  TreatmentPlanStatus = "accepted"
	TreatmentPlanStatusInProcess TreatmentPlanStatus = "in_progress"
	TreatmentPlanStatusCompleted TreatmentPlanStatus = "completed"
	TreatmentPlanStatusCancelled TreatmentPlanStatus = "cancelled"
)

type Treatment struct {
	Base
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	DentistID     uuid.UUID  `db:"dentist_id" json:"dentist_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	PlanID        *uuid.UUID `db:"plan_id" json:"plan_id,omitempty"`
	Procedure     string     `db:"procedure" json:"procedure"`
	Tooth         *string    `db:"tooth" json:"tooth,omitempty"`
	Cost          float64    `db:"cost" json:"cost"`
	PerformedAt   time.Time  `db:"performed_at" json:"performed_at"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`

	Medicines   []*Medicine   `json:"medicines,omitempty"`
	Attachments []*Attachment `json:"attachments,omitempty"`
}

type TreatmentPlan struct {
	Base
	PatientID   uuid.UUID           `db:"patient_id" json:"patient_id"`
	DentistID   uuid.UUID           `db:"dentist_id" json:"dentist_id"`
	Title       string              `db:"title" json:"title"`
	Description *string             `db:"description" json:"description,omitempty"`
	Status      TreatmentPlanStatus `db:"status" json:"status"`
	TotalCost   float64             `db:"total_cost" json:"total_cost"`
}

// Medicine is a prescription line attached to a treatment.
type Medicine struct {
	Base
	TreatmentID uuid.UUID `db:"treatment_id" json:"treatment_id"`
	Name        string    `db:"name" json:"name"`
	Dosage      *string   `db:"dosage" json:"dosage,omitempty"`
	Duration    *string   `db:"duration" json:"duration,omitempty"`
}

// Attachment points at an uploaded report or photo stored on the content
// store; only the pointer and metadata live in the database.
type Attachment struct {
	Base
	TreatmentID uuid.UUID `db:"treatment_id" json:"treatment_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	StoragePath string    `db:"storage_path" json:"storage_path"`
}

type CreateTreatmentRequest struct {
	PatientID     uuid.UUID  `json:"patient_id" binding:"required"`
	DentistID     uuid.UUID  `json:"dentist_id" binding:"required"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	PlanID        *uuid.UUID `json:"plan_id"`
	Procedure     string     `json:"procedure" binding:"required"`
	Tooth         *string    `json:"tooth"`
	Cost          float64    `json:"cost" binding:"min=0"`
	PerformedAt   time.Time  `json:"performed_at" binding:"required"`
	Notes         *string    `json:"notes"`
	Medicines     []struct {
		Name     string  `json:"name" binding:"required"`
		Dosage   *string `json:"dosage"`
		Duration *string `json:"duration"`
	} `json:"medicines"`
}

type UpdateTreatmentRequest struct {
	Procedure   string     `json:"procedure" binding:"required"`
	Tooth       *string    `json:"tooth"`
	Cost        float64    `json:"cost" binding:"min=0"`
	PerformedAt time.Time  `json:"performed_at" binding:"required"`
	PlanID      *uuid.UUID `json:"plan_id"`
	Notes       *string    `json:"notes"`
}

type CreateTreatmentPlanRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	DentistID   uuid.UUID `json:"dentist_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description *string   `json:"description"`
	TotalCost   float64   `json:"total_cost" binding:"min=0"`
}

type UpdateTreatmentPlanRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description *string             `json:"description"`
	Status      TreatmentPlanStatus `json:"status" binding:"required"`
	TotalCost   float64             `json:"total_cost" binding:"min=0"`
}

type TreatmentFilter struct {
	ListFilter
	PatientID *uuid.UUID `form:"patient_id"`
	DentistID *uuid.UUID `form:"dentist_id"`
}
