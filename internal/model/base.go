package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// ListFilter contains the filter fields shared by list endpoints.
type ListFilter struct {
	Search    string     `json:"search" form:"search"`
	Status    string     `json:"status" form:"status"`
	StartDate *time.Time `json:"start_date" form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `json:"end_date" form:"end_date" time_format:"2006-01-02"`
}
