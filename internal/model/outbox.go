package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

const EventAppointmentBooked = "APPOINTMENT_BOOKED"

// OutboxEvent decouples outbound notifications from the owning request: the
// row is written best-effort and dispatched later by the worker.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// AppointmentBookedPayload is the body of an APPOINTMENT_BOOKED event.
type AppointmentBookedPayload struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientName   string    `json:"patient_name"`
	PatientEmail  *string   `json:"patient_email,omitempty"`
	PatientPhone  string    `json:"patient_phone"`
	DentistName   string    `json:"dentist_name"`
	ScheduledAt   time.Time `json:"scheduled_at"`
}
