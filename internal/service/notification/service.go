package notification

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
)

// Service enqueues outbound notifications through the outbox table. Every
// call is best-effort: a failure is logged and swallowed so the owning
// request never fails on notification plumbing.
type Service struct {
	outboxRepo repository.OutboxRepository
}

func NewService(outboxRepo repository.OutboxRepository) *Service {
	return &Service{outboxRepo: outboxRepo}
}

// AppointmentBooked queues a booking notification for the patient.
func (s *Service) AppointmentBooked(ctx context.Context, payload *model.AppointmentBookedPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal appointment notification")
		return
	}

	event := &model.OutboxEvent{
		EventType: model.EventAppointmentBooked,
		Payload:   body,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		log.Error().Err(err).
			Str("appointment_id", payload.AppointmentID.String()).
			Msg("failed to enqueue appointment notification")
	}
}
