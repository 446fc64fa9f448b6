package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

const numberRetries = 3

type invoiceRepository struct {
	BaseRepository
}

func NewInvoiceRepository(db *sqlx.DB) repository.InvoiceRepository {
	return &invoiceRepository{NewBaseRepository(db)}
}

// Create numbers the invoice off the most recently inserted row of the
// current year, inside the insert transaction. The unique constraint on
// number plus a bounded retry covers concurrent creation.
func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	var err error
	for attempt := 0; attempt < numberRetries; attempt++ {
		err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
			year := time.Now().Year()
			var last sql.NullString
			q := `
				SELECT number FROM invoices
				WHERE number LIKE $1
				ORDER BY created_at DESC
				LIMIT 1
			`
			if err := tx.GetContext(ctx, &last, q, fmt.Sprintf("INV-%d-%%", year)); err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to read last invoice number: %w", err)
			}
			invoice.Number = model.NextInvoiceNumber(last.String, year)

			invoice.BalanceAmount = invoice.TotalAmount - invoice.PaidAmount
			if invoice.Status == "" {
				invoice.Status = model.InvoiceStatusPending
			}
			invoice.CreatedAt = time.Now()
			invoice.UpdatedAt = invoice.CreatedAt

			insert := `
				INSERT INTO invoices (
					id, patient_id, number, total_amount, paid_amount, balance_amount,
					status, issued_at, due_at, notes, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			`
			_, err := tx.ExecContext(ctx, insert,
				invoice.ID, invoice.PatientID, invoice.Number, invoice.TotalAmount,
				invoice.PaidAmount, invoice.BalanceAmount, invoice.Status,
				invoice.IssuedAt, invoice.DueAt, invoice.Notes,
				invoice.CreatedAt, invoice.UpdatedAt,
			)
			return err
		})
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
	}
	return fmt.Errorf("failed to create invoice after %d attempts: %w", numberRetries, err)
}

func (r *invoiceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	query := `
		SELECT i.*, p.name AS patient_name
		FROM invoices i
		JOIN patients p ON p.id = i.patient_id
		WHERE i.id = $1
	`
	var invoice model.Invoice
	err := r.db.GetContext(ctx, &invoice, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("invoice", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	query := `
		UPDATE invoices
		SET total_amount = $1, balance_amount = $1 - paid_amount, due_at = $2,
			notes = $3, updated_at = $4
		WHERE id = $5
	`
	invoice.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		invoice.TotalAmount, invoice.DueAt, invoice.Notes, invoice.UpdatedAt, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("invoice", nil)
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("invoice", nil)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *model.InvoiceFilter) ([]*model.Invoice, error) {
	query := `
		SELECT i.*, p.name AS patient_name
		FROM invoices i
		JOIN patients p ON p.id = i.patient_id
		WHERE 1=1
	`
	args := []interface{}{}

	if filter != nil {
		if filter.PatientID != nil {
			args = append(args, *filter.PatientID)
			query += fmt.Sprintf(" AND i.patient_id = $%d", len(args))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			query += fmt.Sprintf(" AND i.status = $%d", len(args))
		}
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			n := len(args)
			query += fmt.Sprintf(" AND (i.number ILIKE $%d OR p.name ILIKE $%d)", n, n)
		}
	}
	query += ` ORDER BY i.created_at DESC`

	invoices := []*model.Invoice{}
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// RecordPayment posts a payment and folds it into the parent invoice as one
// atomic unit. The SELECT ... FOR UPDATE serializes concurrent postings on
// the invoice row, so paid_amount is never computed from a stale read.
func (r *invoiceRepository) RecordPayment(ctx context.Context, payment *model.Payment) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		q := `SELECT * FROM invoices WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &invoice, q, payment.InvoiceID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound("invoice", err)
			}
			return fmt.Errorf("failed to lock invoice: %w", err)
		}

		payment.CreatedAt = time.Now()
		payment.UpdatedAt = payment.CreatedAt
		insert := `
			INSERT INTO payments (id, invoice_id, amount, method, paid_at, reference, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		if _, err := tx.ExecContext(ctx, insert,
			payment.ID, payment.InvoiceID, payment.Amount, payment.Method,
			payment.PaidAt, payment.Reference, payment.Notes,
			payment.CreatedAt, payment.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		invoice.ApplyPayment(payment.Amount)
		invoice.UpdatedAt = time.Now()
		update := `
			UPDATE invoices
			SET paid_amount = $1, balance_amount = $2, status = $3, updated_at = $4
			WHERE id = $5
		`
		if _, err := tx.ExecContext(ctx, update,
			invoice.PaidAmount, invoice.BalanceAmount, invoice.Status,
			invoice.UpdatedAt, invoice.ID,
		); err != nil {
			return fmt.Errorf("failed to update invoice balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*model.Payment, error) {
	query := `SELECT * FROM payments WHERE invoice_id = $1 ORDER BY paid_at DESC`
	payments := []*model.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, invoiceID); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
