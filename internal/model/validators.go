package model

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the domain enum validations on gin's binding
// engine. Call once at startup.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		switch PaymentMethod(fl.Field().String()) {
		case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodInsurance:
			return true
		}
		return false
	}); err != nil {
		return err
	}
	return v.RegisterValidation("schedule_kind", func(fl validator.FieldLevel) bool {
		switch ScheduleKind(fl.Field().String()) {
		case ScheduleKindShift, ScheduleKindLeave:
			return true
		}
		return false
	})
}
