package model

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPayment(t *testing.T) {
	t.Run("full payment settles the invoice", func(t *testing.T) {
		inv := &Invoice{TotalAmount: 500, Status: InvoiceStatusPending}
		inv.ApplyPayment(500)

		assert.Equal(t, 500.0, inv.PaidAmount)
		assert.Equal(t, 0.0, inv.BalanceAmount)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("partial payment", func(t *testing.T) {
		inv := &Invoice{TotalAmount: 500, Status: InvoiceStatusPending}
		inv.ApplyPayment(200)

		assert.Equal(t, 200.0, inv.PaidAmount)
		assert.Equal(t, 300.0, inv.BalanceAmount)
		assert.Equal(t, InvoiceStatusPartial, inv.Status)
	})

	t.Run("payments accumulate", func(t *testing.T) {
		inv := &Invoice{TotalAmount: 500, Status: InvoiceStatusPending}
		inv.ApplyPayment(200)
		inv.ApplyPayment(300)

		assert.Equal(t, 500.0, inv.PaidAmount)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("overpayment still reads as paid", func(t *testing.T) {
		inv := &Invoice{TotalAmount: 500, Status: InvoiceStatusPending}
		inv.ApplyPayment(600)

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.Equal(t, -100.0, inv.BalanceAmount)
	})

	t.Run("zero paid stays pending", func(t *testing.T) {
		inv := &Invoice{TotalAmount: 500, Status: InvoiceStatusPending}
		inv.ApplyPayment(0)

		assert.Equal(t, InvoiceStatusPending, inv.Status)
	})
}

func TestOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name string
		inv  Invoice
		want bool
	}{
		{"past due with balance", Invoice{DueAt: &past, BalanceAmount: 100, Status: InvoiceStatusPartial}, true},
		{"past due but settled", Invoice{DueAt: &past, BalanceAmount: 0, Status: InvoiceStatusPaid}, false},
		{"not yet due", Invoice{DueAt: &future, BalanceAmount: 100, Status: InvoiceStatusPending}, false},
		{"no due date", Invoice{BalanceAmount: 100, Status: InvoiceStatusPending}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inv.Overdue(now))
		})
	}
}

func TestNextInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-2026-001", NextInvoiceNumber("", 2026))
	assert.Equal(t, "INV-2026-002", NextInvoiceNumber("INV-2026-001", 2026))
	assert.Equal(t, "INV-2026-100", NextInvoiceNumber("INV-2026-099", 2026))
	// pad widens past 999 rather than wrapping
	assert.Equal(t, "INV-2026-1000", NextInvoiceNumber("INV-2026-999", 2026))
	// sequence restarts each year
	assert.Equal(t, "INV-2027-001", NextInvoiceNumber("INV-2026-042", 2027))
}

func TestNextPatientCode(t *testing.T) {
	assert.Equal(t, "P001", NextPatientCode(""))
	assert.Equal(t, "P002", NextPatientCode("P001"))
	assert.Equal(t, "P100", NextPatientCode("P099"))
	assert.Equal(t, "P1000", NextPatientCode("P999"))
	assert.Equal(t, "P1001", NextPatientCode("P1000"))
}

// The allocator must key off the numerically highest code; text ordering
// ranks P999 above P1000 once the pad widens.
func TestNextPatientCodeNumericOrdering(t *testing.T) {
	existing := []string{"P998", "P999", "P1000"}

	highest := ""
	highestSeq := 0
	for _, code := range existing {
		n, err := strconv.Atoi(strings.TrimPrefix(code, "P"))
		require.NoError(t, err)
		if n > highestSeq {
			highestSeq = n
			highest = code
		}
	}

	assert.Equal(t, "P1000", highest)
	assert.Equal(t, "P1001", NextPatientCode(highest))
}
