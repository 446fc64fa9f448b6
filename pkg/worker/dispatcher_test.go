package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/pkg/logger"
	"github.com/brightsmile/clinic-api/pkg/metrics"
)

type fakeOutboxRepo struct {
	pending   []*model.OutboxEvent
	processed []uuid.UUID
	failed    map[uuid.UUID]string
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{failed: map[uuid.UUID]string{}}
}

func (r *fakeOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	r.pending = append(r.pending, event)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *fakeOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	r.processed = append(r.processed, id)
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	r.failed[id] = errMsg
	return nil
}

func (r *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type capturedMessage struct {
	channel string
	message interface{}
}

type captureBroker struct {
	published []capturedMessage
}

func (b *captureBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	b.published = append(b.published, capturedMessage{channel: channel, message: message})
	return nil
}

func (b *captureBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *captureBroker) Close() error { return nil }

var testMetrics = metrics.NewMetrics("clinic", "workertest")

func newTestDispatcher(t *testing.T, repo *fakeOutboxRepo, broker *captureBroker) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(repo, broker, nil, DispatcherConfig{
		BatchSize:    10,
		PollInterval: time.Second,
		RetryDelay:   time.Millisecond,
	}, logger.NewLogger(nil), testMetrics)
	require.NoError(t, err)
	return d
}

func TestDispatchPublishesPayloadVerbatim(t *testing.T) {
	payload := json.RawMessage(`{"appointment_id":"a1","patient_name":"Sam"}`)
	repo := newFakeOutboxRepo()
	repo.pending = []*model.OutboxEvent{{
		ID:        uuid.New(),
		EventType: model.EventAppointmentBooked,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}}
	broker := &captureBroker{}
	d := newTestDispatcher(t, repo, broker)

	require.NoError(t, d.processBatch(context.Background()))

	require.Len(t, broker.published, 1)
	assert.Equal(t, model.EventAppointmentBooked, broker.published[0].channel)

	// The broker marshals whatever it is handed. RawMessage must survive
	// that as the original JSON object, not a base64 string.
	wire, err := json.Marshal(broker.published[0].message)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(wire))

	require.Len(t, repo.processed, 1)
	assert.Equal(t, repo.pending[0].ID, repo.processed[0])
	assert.Empty(t, repo.failed)
}

func TestDispatchUnknownEventTypeStillProcessed(t *testing.T) {
	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: "UNKNOWN_EVENT",
		Payload:   json.RawMessage(`{}`),
		Status:    model.OutboxStatusPending,
	}
	repo := newFakeOutboxRepo()
	repo.pending = []*model.OutboxEvent{event}
	broker := &captureBroker{}
	d := newTestDispatcher(t, repo, broker)

	require.NoError(t, d.processBatch(context.Background()))

	// Unknown event types still publish; only delivery errors mark failure.
	require.Len(t, broker.published, 1)
	assert.Len(t, repo.processed, 1)
	assert.Empty(t, repo.failed)
}
