package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.ListFilter) ([]*model.User, error)
	ListDentists(ctx context.Context) ([]*model.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	// ResolveUser returns the active user owning an unexpired session token.
	ResolveUser(ctx context.Context, token string) (*model.User, error)
	Delete(ctx context.Context, token string) error
}

type PatientRepository interface {
	// Create assigns the next sequential patient code inside the insert
	// transaction.
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.ListFilter) ([]*model.Patient, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error)

	CreateRequest(ctx context.Context, request *model.AppointmentRequest) error
	ListRequests(ctx context.Context, includeHandled bool) ([]*model.AppointmentRequest, error)
	MarkRequestHandled(ctx context.Context, id uuid.UUID) error
}

type TreatmentRepository interface {
	Create(ctx context.Context, treatment *model.Treatment, medicines []*model.Medicine) error
	Get(ctx context.Context, id uuid.UUID) (*model.Treatment, error)
	Update(ctx context.Context, treatment *model.Treatment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.TreatmentFilter) ([]*model.Treatment, error)

	CreatePlan(ctx context.Context, plan *model.TreatmentPlan) error
	GetPlan(ctx context.Context, id uuid.UUID) (*model.TreatmentPlan, error)
	UpdatePlan(ctx context.Context, plan *model.TreatmentPlan) error
	DeletePlan(ctx context.Context, id uuid.UUID) error
	ListPlans(ctx context.Context, filter *model.TreatmentFilter) ([]*model.TreatmentPlan, error)

	AddAttachment(ctx context.Context, attachment *model.Attachment) error
	ListAttachments(ctx context.Context, treatmentID uuid.UUID) ([]*model.Attachment, error)
	GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
	DeleteAttachment(ctx context.Context, id uuid.UUID) error
}

type InvoiceRepository interface {
	// Create assigns the next INV-{year}-{seq} number inside the insert
	// transaction, retrying on number collision.
	Create(ctx context.Context, invoice *model.Invoice) error
	Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.InvoiceFilter) ([]*model.Invoice, error)

	// RecordPayment inserts the payment and updates the parent invoice's
	// paid/balance/status as one transaction, holding a row lock on the
	// invoice so concurrent postings serialize.
	RecordPayment(ctx context.Context, payment *model.Payment) (*model.Invoice, error)
	ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*model.Payment, error)
}

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.ListFilter) ([]*model.InventoryItem, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, slot *model.ScheduleSlot) error
	Get(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error)
	Update(ctx context.Context, slot *model.ScheduleSlot) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.ScheduleFilter) ([]*model.ScheduleSlot, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
