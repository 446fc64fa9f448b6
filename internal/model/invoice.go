package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

type PaymentMethod string

const (
	PaymentMethodCash      PaymentMethod = "cash"
	PaymentMethodCard      PaymentMethod = "card"
	PaymentMethodTransfer  PaymentMethod = "transfer"
	PaymentMethodInsurance PaymentMethod = "insurance"
)

type Invoice struct {
	Base
	PatientID     uuid.UUID     `db:"patient_id" json:"patient_id"`
	Number        string        `db:"number" json:"number"`
	TotalAmount   float64       `db:"total_amount" json:"total_amount"`
	PaidAmount    float64       `db:"paid_amount" json:"paid_amount"`
	BalanceAmount float64       `db:"balance_amount" json:"balance_amount"`
	Status        InvoiceStatus `db:"status" json:"status"`
	IssuedAt      time.Time     `db:"issued_at" json:"issued_at"`
	DueAt         *time.Time    `db:"due_at" json:"due_at,omitempty"`
	Notes         *string       `db:"notes" json:"notes,omitempty"`

	PatientName *string `db:"patient_name" json:"patient_name,omitempty"`
}

type Payment struct {
	Base
	InvoiceID uuid.UUID     `db:"invoice_id" json:"invoice_id"`
	Amount    float64       `db:"amount" json:"amount"`
	Method    PaymentMethod `db:"method" json:"method"`
	PaidAt    time.Time     `db:"paid_at" json:"paid_at"`
	Reference *string       `db:"reference" json:"reference,omitempty"`
	Notes     *string       `db:"notes" json:"notes,omitempty"`
}

// ApplyPayment adds amount to the paid total and recomputes balance and
// status. Callers must hold the invoice row lock so concurrent payments
// against the same invoice serialize.
func (i *Invoice) ApplyPayment(amount float64) {
	i.PaidAmount += amount
	i.BalanceAmount = i.TotalAmount - i.PaidAmount
	i.Status = statusFor(i.PaidAmount, i.BalanceAmount)
}

func statusFor(paid, balance float64) InvoiceStatus {
	switch {
	case balance <= 0:
		return InvoiceStatusPaid
	case paid > 0:
		return InvoiceStatusPartial
	default:
		return InvoiceStatusPending
	}
}

// Overdue reports whether the invoice is past due with an outstanding
// balance; list responses surface this as the overdue status.
func (i *Invoice) Overdue(now time.Time) bool {
	return i.DueAt != nil && now.After(*i.DueAt) && i.BalanceAmount > 0 && i.Status != InvoiceStatusPaid
}

// NextInvoiceNumber derives the successor of last for year, zero-padded to 3
// digits: INV-2026-001, INV-2026-002, ... An empty or foreign-year last
// starts the sequence over at 001.
func NextInvoiceNumber(last string, year int) string {
	prefix := fmt.Sprintf("INV-%d-", year)
	seq := 1
	if strings.HasPrefix(last, prefix) {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, seq)
}

// NextPatientCode derives the successor of the highest existing patient code:
// P001, P002, ...
func NextPatientCode(last string) string {
	seq := 1
	if strings.HasPrefix(last, "P") {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, "P")); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("P%03d", seq)
}

type CreateInvoiceRequest struct {
	PatientID   uuid.UUID  `json:"patient_id" binding:"required"`
	TotalAmount float64    `json:"total_amount" binding:"required,gt=0"`
	DueAt       *time.Time `json:"due_at"`
	Notes       *string    `json:"notes"`
}

type UpdateInvoiceRequest struct {
	TotalAmount float64    `json:"total_amount" binding:"required,gt=0"`
	DueAt       *time.Time `json:"due_at"`
	Notes       *string    `json:"notes"`
}

type RecordPaymentRequest struct {
	Amount    float64       `json:"amount" binding:"required,gt=0"`
	Method    PaymentMethod `json:"method" binding:"required,payment_method"`
	Reference *string       `json:"reference"`
	Notes     *string       `json:"notes"`
}

type InvoiceFilter struct {
	ListFilter
	PatientID *uuid.UUID `form:"patient_id"`
}
