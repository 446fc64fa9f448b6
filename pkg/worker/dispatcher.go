package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/brightsmile/clinic-api/internal/email"
	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	"github.com/brightsmile/clinic-api/pkg/logger"
	"github.com/brightsmile/clinic-api/pkg/messaging"
	"github.com/brightsmile/clinic-api/pkg/metrics"
)

type DispatcherConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	RetainFor     time.Duration
}

// Dispatcher drains the notification outbox: each pending event is published
// to the broker and, where a patient email is on file, mailed out. Processed
// rows older than RetainFor are pruned on every pass.
type Dispatcher struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	mailer  *email.Mailer
	config  DispatcherConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewDispatcher(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	mailer *email.Mailer,
	config DispatcherConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) (*Dispatcher, error) {
	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than 0")
	}
	if config.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	if config.RetainFor <= 0 {
		config.RetainFor = 7 * 24 * time.Hour
	}

	return &Dispatcher{
		repo:    repo,
		broker:  broker,
		mailer:  mailer,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}, nil
}

func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	d.logger.Info("starting notification dispatcher")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("shutting down notification dispatcher")
			return
		case <-ticker.C:
			if err := d.processBatch(ctx); err != nil {
				d.logger.Error(err, "failed to process notification batch")
			}
			d.prune(ctx)
		}
	}
}

func (d *Dispatcher) processBatch(ctx context.Context) error {
	timer := prometheus.NewTimer(d.metrics.DispatchLatency)
	defer timer.ObserveDuration()

	events, err := d.repo.GetPendingEvents(ctx, d.config.BatchSize)
	if err != nil {
		d.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "error").Inc()
		return fmt.Errorf("failed to get pending events: %w", err)
	}
	d.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "success").Inc()

	for _, event := range events {
		if err := d.dispatch(ctx, event); err != nil {
			d.logger.Error(err, "failed to dispatch event",
				"event_id", event.ID.String(),
				"event_type", event.EventType)
		}
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, event *model.OutboxEvent) error {
	err := retry(d.config.RetryAttempts, d.config.RetryDelay, func() error {
		// Payload stays json.RawMessage so the broker publishes the JSON
		// verbatim instead of base64-encoding a byte slice.
		if err := d.broker.Publish(ctx, event.EventType, event.Payload); err != nil {
			return err
		}
		return d.deliverMail(event)
	})
	if err != nil {
		d.metrics.NotificationsFailed.Inc()
		if markErr := d.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
			d.logger.Error(markErr, "failed to mark event failed", "event_id", event.ID.String())
		}
		return err
	}

	d.metrics.NotificationsDispatched.Inc()
	if err := d.repo.MarkProcessed(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

// deliverMail sends the patient-facing mail for event types that carry an
// address. Missing addresses and a disabled mailer are not errors.
func (d *Dispatcher) deliverMail(event *model.OutboxEvent) error {
	if d.mailer == nil || !d.mailer.Enabled() {
		return nil
	}

	switch event.EventType {
	case model.EventAppointmentBooked:
		var payload model.AppointmentBookedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("malformed payload: %w", err)
		}
		if payload.PatientEmail == nil {
			return nil
		}
		return d.mailer.SendAppointmentConfirmation(*payload.PatientEmail, &payload)
	}
	return nil
}

func (d *Dispatcher) prune(ctx context.Context) {
	n, err := d.repo.DeleteProcessedBefore(ctx, time.Now().Add(-d.config.RetainFor))
	if err != nil {
		d.logger.Error(err, "failed to prune processed events")
		return
	}
	if n > 0 {
		d.logger.Debug("pruned processed events", "count", n)
	}
}

func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
