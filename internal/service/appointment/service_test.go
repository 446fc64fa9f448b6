package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/clinic-api/internal/model"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	requests     map[uuid.UUID]*model.AppointmentRequest
	lastFilter   *model.AppointmentFilter
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		appointments: map[uuid.UUID]*model.Appointment{},
		requests:     map[uuid.UUID]*model.AppointmentRequest{},
	}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	if a, ok := r.appointments[id]; ok {
		return a, nil
	}
	return nil, apperrors.NotFound("appointment", nil)
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	if _, ok := r.appointments[a.ID]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	r.lastFilter = filter
	out := []*model.Appointment{}
	for _, a := range r.appointments {
		if filter != nil && filter.DentistID != nil && a.DentistID != *filter.DentistID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) CreateRequest(ctx context.Context, req *model.AppointmentRequest) error {
	r.requests[req.ID] = req
	return nil
}

func (r *fakeAppointmentRepo) ListRequests(ctx context.Context, includeHandled bool) ([]*model.AppointmentRequest, error) {
	out := []*model.AppointmentRequest{}
	for _, req := range r.requests {
		if !includeHandled && req.Handled {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) MarkRequestHandled(ctx context.Context, id uuid.UUID) error {
	req, ok := r.requests[id]
	if !ok {
		return apperrors.NotFound("appointment request", nil)
	}
	req.Handled = true
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user", nil)
}
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, apperrors.NotFound("user", nil)
}
func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (r *fakeUserRepo) List(ctx context.Context, filter *model.ListFilter) ([]*model.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) ListDentists(ctx context.Context) ([]*model.User, error) { return nil, nil }
func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func seedService() (*Service, *fakeAppointmentRepo, *model.User, *model.User) {
	repo := newFakeAppointmentRepo()

	dentistA := &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleDentist, IsActive: true}
	dentistB := &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleDentist, IsActive: true}
	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		dentistA.ID: dentistA,
		dentistB.ID: dentistB,
	}}

	return NewService(repo, users), repo, dentistA, dentistB
}

func TestCreateAppointmentValidatesDentist(t *testing.T) {
	svc, _, dentistA, _ := seedService()
	ctx := context.Background()

	a, err := svc.CreateAppointment(ctx, &model.Appointment{
		PatientID:   uuid.New(),
		DentistID:   dentistA.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		DurationMin: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, a.Status)
	assert.NotEqual(t, uuid.Nil, a.ID)

	_, err = svc.CreateAppointment(ctx, &model.Appointment{
		PatientID: uuid.New(),
		DentistID: uuid.New(), // no such user
	})
	assert.Error(t, err)
}

func TestCreateAppointmentRejectsNonDentist(t *testing.T) {
	repo := newFakeAppointmentRepo()
	receptionist := &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleReceptionist}
	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{receptionist.ID: receptionist}}
	svc := NewService(repo, users)

	_, err := svc.CreateAppointment(context.Background(), &model.Appointment{
		PatientID: uuid.New(),
		DentistID: receptionist.ID,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}

func TestDentistScopingOnGet(t *testing.T) {
	svc, repo, dentistA, dentistB := seedService()
	ctx := context.Background()

	a := &model.Appointment{Base: model.Base{ID: uuid.New()}, DentistID: dentistA.ID}
	repo.appointments[a.ID] = a

	got, err := svc.GetAppointment(ctx, dentistA, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	// another dentist sees not-found, not forbidden
	_, err = svc.GetAppointment(ctx, dentistB, a.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	// receptionists are unscoped
	receptionist := &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleReceptionist}
	_, err = svc.GetAppointment(ctx, receptionist, a.ID)
	assert.NoError(t, err)
}

func TestDentistScopingOnList(t *testing.T) {
	svc, repo, dentistA, dentistB := seedService()
	ctx := context.Background()

	a1 := &model.Appointment{Base: model.Base{ID: uuid.New()}, DentistID: dentistA.ID}
	a2 := &model.Appointment{Base: model.Base{ID: uuid.New()}, DentistID: dentistB.ID}
	repo.appointments[a1.ID] = a1
	repo.appointments[a2.ID] = a2

	// dentist A's filter is forced to their own ID, even when asking for B
	got, err := svc.ListAppointments(ctx, dentistA, &model.AppointmentFilter{DentistID: &dentistB.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a1.ID, got[0].ID)

	// admin filter passes through untouched
	admin := &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleAdmin}
	got, err = svc.ListAppointments(ctx, admin, nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDentistScopingOnUpdate(t *testing.T) {
	svc, repo, dentistA, dentistB := seedService()
	ctx := context.Background()

	a := &model.Appointment{Base: model.Base{ID: uuid.New()}, DentistID: dentistA.ID}
	repo.appointments[a.ID] = a

	_, err := svc.UpdateAppointment(ctx, dentistB, &model.Appointment{
		Base:      model.Base{ID: a.ID},
		DentistID: dentistB.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAppointmentRequestLifecycle(t *testing.T) {
	svc, _, _, _ := seedService()
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, &model.AppointmentRequestInput{
		FullName: "Jordan Lee",
		Phone:    "555-0101",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, req.ID)
	assert.False(t, req.Handled)

	pending, err := svc.ListRequests(ctx, false)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, svc.MarkRequestHandled(ctx, req.ID))

	pending, err = svc.ListRequests(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := svc.ListRequests(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	err = svc.MarkRequestHandled(ctx, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}
