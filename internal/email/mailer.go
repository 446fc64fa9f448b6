package email

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/brightsmile/clinic-api/internal/config"
	"github.com/brightsmile/clinic-api/internal/model"
)

// Mailer sends patient-facing notification mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Enabled reports whether SMTP is configured at all; without a host the
// worker skips mail and only publishes broker events.
func (m *Mailer) Enabled() bool {
	return m.dialer.Host != ""
}

func (m *Mailer) SendAppointmentConfirmation(to string, payload *model.AppointmentBookedPayload) error {
	if to == "" {
		return fmt.Errorf("patient has no email address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your appointment is booked")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nYour appointment with %s is confirmed for %s.\n\nIf you need to reschedule, please call the clinic.\n",
		payload.PatientName,
		payload.DentistName,
		payload.ScheduledAt.Format(time.RFC1123),
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation mail: %w", err)
	}
	return nil
}
