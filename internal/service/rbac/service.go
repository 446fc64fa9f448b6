package rbac

import "github.com/brightsmile/clinic-api/internal/model"

// Permission is a named capability gating one operation class.
type Permission string

const (
	PermPatientView   Permission = "PATIENT_VIEW"
	PermPatientCreate Permission = "PATIENT_CREATE"
	PermPatientEdit   Permission = "PATIENT_EDIT"
	PermPatientDelete Permission = "PATIENT_DELETE"

	PermAppointmentView   Permission = "APPOINTMENT_VIEW"
	PermAppointmentCreate Permission = "APPOINTMENT_CREATE"
	PermAppointmentEdit   Permission = "APPOINTMENT_EDIT"
	PermAppointmentDelete Permission = "APPOINTMENT_DELETE"

	PermTreatmentView   Permission = "TREATMENT_VIEW"
	PermTreatmentCreate Permission = "TREATMENT_CREATE"
	PermTreatmentEdit   Permission = "TREATMENT_EDIT"
	PermTreatmentDelete Permission = "TREATMENT_DELETE"

	PermInvoiceView   Permission = "INVOICE_VIEW"
	PermInvoiceCreate Permission = "INVOICE_CREATE"
	PermInvoiceEdit   Permission = "INVOICE_EDIT"
	PermInvoiceDelete Permission = "INVOICE_DELETE"

	PermPaymentView   Permission = "PAYMENT_VIEW"
	PermPaymentCreate Permission = "PAYMENT_CREATE"

	PermInventoryView   Permission = "INVENTORY_VIEW"
	PermInventoryCreate Permission = "INVENTORY_CREATE"
	PermInventoryEdit   Permission = "INVENTORY_EDIT"
	PermInventoryDelete Permission = "INVENTORY_DELETE"

	PermStaffView   Permission = "STAFF_VIEW"
	PermStaffCreate Permission = "STAFF_CREATE"
	PermStaffEdit   Permission = "STAFF_EDIT"
	PermStaffDelete Permission = "STAFF_DELETE"

	PermScheduleView   Permission = "SCHEDULE_VIEW"
	PermScheduleCreate Permission = "SCHEDULE_CREATE"
	PermScheduleEdit   Permission = "SCHEDULE_EDIT"
	PermScheduleDelete Permission = "SCHEDULE_DELETE"
)

// permissionTable is the static mapping from permission to allowed roles.
// Admin is absent on purpose: Authorize grants it everything. An empty set
// means admin-only.
var permissionTable = map[Permission][]model.Role{
	PermPatientView:   {model.RoleDentist, model.RoleHygienist, model.RoleReceptionist, model.RoleAccountant},
	PermPatientCreate: {model.RoleReceptionist},
	PermPatientEdit:   {model.RoleReceptionist},
	PermPatientDelete: {},

	PermAppointmentView:   {model.RoleDentist, model.RoleHygienist, model.RoleReceptionist},
	PermAppointmentCreate: {model.RoleReceptionist},
	PermAppointmentEdit:   {model.RoleReceptionist, model.RoleDentist},
	PermAppointmentDelete: {model.RoleReceptionist},

	PermTreatmentView:   {model.RoleDentist, model.RoleHygienist},
	PermTreatmentCreate: {model.RoleDentist},
	PermTreatmentEdit:   {model.RoleDentist},
	PermTreatmentDelete: {},

	PermInvoiceView:   {model.RoleAccountant, model.RoleReceptionist},
	PermInvoiceCreate: {model.RoleAccountant, model.RoleReceptionist},
	PermInvoiceEdit:   {model.RoleAccountant},
	PermInvoiceDelete: {},

	PermPaymentView:   {model.RoleAccountant, model.RoleReceptionist},
	PermPaymentCreate: {model.RoleAccountant, model.RoleReceptionist},

	PermInventoryView:   {model.RoleDentist, model.RoleHygienist, model.RoleReceptionist, model.RoleAccountant},
	PermInventoryCreate: {model.RoleReceptionist},
	PermInventoryEdit:   {model.RoleReceptionist},
	PermInventoryDelete: {model.RoleReceptionist},

	PermStaffView:   {},
	PermStaffCreate: {},
	PermStaffEdit:   {},
	PermStaffDelete: {},

	PermScheduleView:   {model.RoleDentist, model.RoleHygienist, model.RoleReceptionist, model.RoleAccountant},
	PermScheduleCreate: {model.RoleReceptionist},
	PermScheduleEdit:   {model.RoleReceptionist},
	PermScheduleDelete: {model.RoleReceptionist},
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Authorize reports whether role may exercise permission. Admin holds every
// permission, including ones missing from the table.
func (s *Service) Authorize(role model.Role, permission Permission) bool {
	if role == model.RoleAdmin {
		return true
	}
	allowed, ok := permissionTable[permission]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns the roles listed for permission, without the implicit
// admin grant.
func (s *Service) AllowedRoles(permission Permission) []model.Role {
	allowed := permissionTable[permission]
	out := make([]model.Role, len(allowed))
	copy(out, allowed)
	return out
}

// Permissions lists every permission a role holds, for the /auth/me payload.
func (s *Service) Permissions(role model.Role) []Permission {
	perms := make([]Permission, 0, len(permissionTable))
	for p := range permissionTable {
		if s.Authorize(role, p) {
			perms = append(perms, p)
		}
	}
	return perms
}
