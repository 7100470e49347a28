package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/student-roster/internal/models"
	"github.com/noah-isme/student-roster/pkg/jobs"
)

// EventSink receives student notifications off the request path.
type EventSink interface {
	Name() string
	Deliver(ctx context.Context, event models.StudentEvent) error
}

type eventMetrics interface {
	ObserveStudentEvent(kind models.EventKind, outcome string)
}

// DispatcherConfig sizes the delivery worker pool.
type DispatcherConfig struct {
	Workers    int
	BufferSize int
}

type delivery struct {
	sink  EventSink
	event models.StudentEvent
}

// NotificationDispatcher fans student events out to sinks through an in-memory queue.
// Enqueueing never blocks: when the buffer is full the event is dropped and counted.
// Failed deliveries are not retried.
type NotificationDispatcher struct {
	queue   *jobs.Queue
	sinks   []EventSink
	metrics eventMetrics
	logger  *zap.Logger
}

// NewNotificationDispatcher builds a dispatcher; call Start before events flow.
func NewNotificationDispatcher(sinks []EventSink, cfg DispatcherConfig, metrics eventMetrics, logger *zap.Logger) *NotificationDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &NotificationDispatcher{
		sinks:   sinks,
		metrics: metrics,
		logger:  logger,
	}
	d.queue = jobs.NewQueue("student-events", d.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: 0,
		Logger:     logger,
	})
	return d
}

// Start launches the delivery workers.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop halts the workers; undelivered events are discarded.
func (d *NotificationDispatcher) Stop() {
	d.queue.Stop()
}

// StudentChanged enqueues one delivery per sink and returns immediately.
func (d *NotificationDispatcher) StudentChanged(_ context.Context, event models.StudentEvent) {
	for _, sink := range d.sinks {
		job := jobs.Job{
			ID:      fmt.Sprintf("%s:%s", event.ID, sink.Name()),
			Type:    sink.Name(),
			Payload: delivery{sink: sink, event: event},
		}
		if err := d.queue.TryEnqueue(job); err != nil {
			d.observe(event.Kind, EventOutcomeDropped)
			d.logger.Warn("student event dropped",
				zap.String("event_id", event.ID),
				zap.String("sink", sink.Name()),
				zap.Error(err),
			)
			continue
		}
		d.observe(event.Kind, EventOutcomeQueued)
	}
}

func (d *NotificationDispatcher) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(delivery)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	if err := payload.sink.Deliver(ctx, payload.event); err != nil {
		d.observe(payload.event.Kind, EventOutcomeFailed)
		return fmt.Errorf("deliver to %s: %w", payload.sink.Name(), err)
	}
	d.observe(payload.event.Kind, EventOutcomeDelivered)
	return nil
}

func (d *NotificationDispatcher) observe(kind models.EventKind, outcome string) {
	if d.metrics != nil {
		d.metrics.ObserveStudentEvent(kind, outcome)
	}
}
