package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brightsmile/clinic-api/internal/model"
)

func TestAuthorize(t *testing.T) {
	svc := NewService()

	tests := []struct {
		name       string
		role       model.Role
		permission Permission
		want       bool
	}{
		{"receptionist creates patients", model.RoleReceptionist, PermPatientCreate, true},
		{"dentist cannot create patients", model.RoleDentist, PermPatientCreate, false},
		{"hygienist views treatments", model.RoleHygienist, PermTreatmentView, true},
		{"hygienist cannot edit treatments", model.RoleHygienist, PermTreatmentEdit, false},
		{"accountant records payments", model.RoleAccountant, PermPaymentCreate, true},
		{"accountant cannot view appointments", model.RoleAccountant, PermAppointmentView, false},
		{"dentist edits appointments", model.RoleDentist, PermAppointmentEdit, true},
		{"receptionist cannot edit invoices", model.RoleReceptionist, PermInvoiceEdit, false},
		{"nobody but admin deletes patients", model.RoleReceptionist, PermPatientDelete, false},
		{"nobody but admin deletes treatments", model.RoleDentist, PermTreatmentDelete, false},
		{"staff management is admin-only", model.RoleReceptionist, PermStaffView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Authorize(tt.role, tt.permission))
		})
	}
}

func TestAuthorizeAdminBypass(t *testing.T) {
	svc := NewService()

	// Admin holds every permission in the table, including the empty sets.
	for perm := range permissionTable {
		assert.True(t, svc.Authorize(model.RoleAdmin, perm), "admin should hold %s", perm)
	}
}

func TestAuthorizeUnknownPermission(t *testing.T) {
	svc := NewService()

	assert.False(t, svc.Authorize(model.RoleReceptionist, Permission("NOT_A_PERMISSION")))
	assert.True(t, svc.Authorize(model.RoleAdmin, Permission("NOT_A_PERMISSION")))
}

func TestPermissions(t *testing.T) {
	svc := NewService()

	adminPerms := svc.Permissions(model.RoleAdmin)
	assert.Len(t, adminPerms, len(permissionTable))

	accountantPerms := svc.Permissions(model.RoleAccountant)
	assert.Contains(t, accountantPerms, PermInvoiceEdit)
	assert.NotContains(t, accountantPerms, PermTreatmentView)
}
