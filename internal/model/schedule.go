package model

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleKind string

const (
	ScheduleKindShift ScheduleKind = "shift"
	ScheduleKindLeave ScheduleKind = "leave"
)

// ScheduleSlot is a staff-schedule entry: a working shift or booked leave.
type ScheduleSlot struct {
	Base
	UserID   uuid.UUID    `db:"user_id" json:"user_id"`
	Date     time.Time    `db:"date" json:"date"`
	StartsAt time.Time    `db:"starts_at" json:"starts_at"`
	EndsAt   time.Time    `db:"ends_at" json:"ends_at"`
	Kind     ScheduleKind `db:"kind" json:"kind"`
	Notes    *string      `db:"notes" json:"notes,omitempty"`

	UserName *string `db:"user_name" json:"user_name,omitempty"`
}

type CreateScheduleSlotRequest struct {
	UserID   uuid.UUID    `json:"user_id" binding:"required"`
	Date     time.Time    `json:"date" binding:"required"`
	StartsAt time.Time    `json:"starts_at" binding:"required"`
	EndsAt   time.Time    `json:"ends_at" binding:"required"`
	Kind     ScheduleKind `json:"kind" binding:"required,schedule_kind"`
	Notes    *string      `json:"notes"`
}

type UpdateScheduleSlotRequest struct {
	Date     time.Time    `json:"date" binding:"required"`
	StartsAt time.Time    `json:"starts_at" binding:"required"`
	EndsAt   time.Time    `json:"ends_at" binding:"required"`
	Kind     ScheduleKind `json:"kind" binding:"required,schedule_kind"`
	Notes    *string      `json:"notes"`
}

type ScheduleFilter struct {
	ListFilter
	UserID *uuid.UUID `form:"user_id"`
}
