package billing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/clinic-api/internal/model"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

// fakeInvoiceRepo serializes payment postings with a mutex, mirroring the row
// lock the real repository takes.
type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*model.Invoice
	payments map[uuid.UUID][]*model.Payment
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: map[uuid.UUID]*model.Invoice{},
		payments: map[uuid.UUID][]*model.Payment{},
	}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice.Number = model.NextInvoiceNumber(r.lastNumber(), time.Now().Year())
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) lastNumber() string {
	last := ""
	for _, inv := range r.invoices {
		if inv.Number > last {
			last = inv.Number
		}
	}
	return last
}

func (r *fakeInvoiceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, apperrors.NotFound("invoice", nil)
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, invoice *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.invoices[invoice.ID]
	if !ok {
		return apperrors.NotFound("invoice", nil)
	}
	current.TotalAmount = invoice.TotalAmount
	current.DueAt = invoice.DueAt
	current.Notes = invoice.Notes
	return nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, filter *model.InvoiceFilter) ([]*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Invoice{}
	for _, inv := range r.invoices {
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) RecordPayment(ctx context.Context, payment *model.Payment) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invoice, ok := r.invoices[payment.InvoiceID]
	if !ok {
		return nil, apperrors.NotFound("invoice", nil)
	}
	r.payments[payment.InvoiceID] = append(r.payments[payment.InvoiceID], payment)
	invoice.ApplyPayment(payment.Amount)
	cp := *invoice
	return &cp, nil
}

func (r *fakeInvoiceRepo) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payments[invoiceID], nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (r *fakePatientRepo) Create(ctx context.Context, patient *model.Patient) error { return nil }
func (r *fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	if p, ok := r.patients[id]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("patient", nil)
}
func (r *fakePatientRepo) Update(ctx context.Context, patient *model.Patient) error { return nil }
func (r *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }
func (r *fakePatientRepo) List(ctx context.Context, filter *model.ListFilter) ([]*model.Patient, error) {
	return nil, nil
}

func seedBilling() (*Service, *fakeInvoiceRepo, *model.Patient) {
	repo := newFakeInvoiceRepo()
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}, Name: "Sam Rivera"}
	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{patient.ID: patient}}
	return NewService(repo, patients), repo, patient
}

func TestCreateInvoice(t *testing.T) {
	svc, _, patient := seedBilling()
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, &model.Invoice{
		PatientID:   patient.ID,
		TotalAmount: 500,
		PaidAmount:  999, // caller cannot pre-seed payments
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, inv.PaidAmount)
	assert.Equal(t, 500.0, inv.BalanceAmount)
	assert.Equal(t, model.InvoiceStatusPending, inv.Status)
	assert.NotEmpty(t, inv.Number)

	_, err = svc.CreateInvoice(ctx, &model.Invoice{PatientID: uuid.New(), TotalAmount: 100})
	assert.True(t, apperrors.IsNotFound(err), "unknown patient should fail the invoice")
}

func TestRecordPayment(t *testing.T) {
	svc, _, patient := seedBilling()
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, &model.Invoice{PatientID: patient.ID, TotalAmount: 500})
	require.NoError(t, err)

	got, err := svc.RecordPayment(ctx, inv.ID, &model.Payment{Amount: 200, Method: model.PaymentMethodCash})
	require.NoError(t, err)
	assert.Equal(t, 200.0, got.PaidAmount)
	assert.Equal(t, 300.0, got.BalanceAmount)
	assert.Equal(t, model.InvoiceStatusPartial, got.Status)

	got, err = svc.RecordPayment(ctx, inv.ID, &model.Payment{Amount: 300, Method: model.PaymentMethodCard})
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, got.Status)
	assert.Equal(t, 0.0, got.BalanceAmount)

	payments, err := svc.ListPayments(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	for _, p := range payments {
		assert.False(t, p.PaidAt.IsZero())
		assert.Equal(t, inv.ID, p.InvoiceID)
	}
}

func TestConcurrentPaymentsDoNotLoseUpdates(t *testing.T) {
	svc, _, patient := seedBilling()
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, &model.Invoice{PatientID: patient.ID, TotalAmount: 1000})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordPayment(ctx, inv.ID, &model.Payment{Amount: 100, Method: model.PaymentMethodCash})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, got.PaidAmount)
	assert.Equal(t, 0.0, got.BalanceAmount)
	assert.Equal(t, model.InvoiceStatusPaid, got.Status)
}

func TestOverdueComputedAtRead(t *testing.T) {
	svc, repo, patient := seedBilling()
	ctx := context.Background()

	due := time.Now().Add(-24 * time.Hour)
	inv, err := svc.CreateInvoice(ctx, &model.Invoice{PatientID: patient.ID, TotalAmount: 500, DueAt: &due})
	require.NoError(t, err)

	got, err := svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOverdue, got.Status)

	// the stored row keeps its real status
	assert.Equal(t, model.InvoiceStatusPending, repo.invoices[inv.ID].Status)

	list, err := svc.ListInvoices(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.InvoiceStatusOverdue, list[0].Status)
}
