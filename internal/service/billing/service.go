package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
)

// Service keeps invoice paid/balance/status consistent with recorded
// payments. All multi-step writes run inside repository transactions; a
// failure rolls back the whole posting.
type Service struct {
	repo        repository.InvoiceRepository
	patientRepo repository.PatientRepository
}

func NewService(repo repository.InvoiceRepository, patientRepo repository.PatientRepository) *Service {
	return &Service{repo: repo, patientRepo: patientRepo}
}

func (s *Service) CreateInvoice(ctx context.Context, invoice *model.Invoice) (*model.Invoice, error) {
	if _, err := s.patientRepo.Get(ctx, invoice.PatientID); err != nil {
		return nil, err
	}

	invoice.ID = uuid.New()
	invoice.PaidAmount = 0
	invoice.BalanceAmount = invoice.TotalAmount
	invoice.Status = model.InvoiceStatusPending
	if invoice.IssuedAt.IsZero() {
		invoice.IssuedAt = time.Now()
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, invoice.ID)
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Overdue(time.Now()) {
		invoice.Status = model.InvoiceStatusOverdue
	}
	return invoice, nil
}

// UpdateInvoice rewrites the editable columns (total, due date, notes);
// paid_amount and status only move through payment postings.
func (s *Service) UpdateInvoice(ctx context.Context, invoice *model.Invoice) (*model.Invoice, error) {
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, invoice.ID)
}

func (s *Service) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListInvoices(ctx context.Context, filter *model.InvoiceFilter) ([]*model.Invoice, error) {
	invoices, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, invoice := range invoices {
		if invoice.Overdue(now) {
			invoice.Status = model.InvoiceStatusOverdue
		}
	}
	return invoices, nil
}

// RecordPayment posts a payment against an invoice. The repository applies
// the insert and the balance/status recomputation as one atomic unit under a
// row lock, so concurrent postings serialize.
func (s *Service) RecordPayment(ctx context.Context, invoiceID uuid.UUID, payment *model.Payment) (*model.Invoice, error) {
	payment.ID = uuid.New()
	payment.InvoiceID = invoiceID
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}
	return s.repo.RecordPayment(ctx, payment)
}

func (s *Service) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*model.Payment, error) {
	if _, err := s.repo.Get(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, invoiceID)
}
