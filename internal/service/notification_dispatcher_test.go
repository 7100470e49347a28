package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-roster/internal/models"
)

type recordingSink struct {
	mu      sync.Mutex
	name    string
	events  []models.StudentEvent
	err     error
	entered chan struct{}
	release chan struct{}
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(ctx context.Context, event models.StudentEvent) error {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (o *outcomeRecorder) ObserveStudentEvent(kind models.EventKind, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = make(map[string]int)
	}
	o.outcomes[outcome]++
}

func (o *outcomeRecorder) get(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomes[outcome]
}

func sampleEvent(id string) models.StudentEvent {
	return models.StudentEvent{ID: id, Kind: models.EventStudentSelected, Student: fixtureRoster()[0], OccurredAt: time.Now()}
}

func TestDispatcherDeliversToEverySink(t *testing.T) {
	logSink := &recordingSink{name: "log"}
	redisSink := &recordingSink{name: "redis"}
	metrics := &outcomeRecorder{}
	d := NewNotificationDispatcher([]EventSink{logSink, redisSink}, DispatcherConfig{Workers: 2, BufferSize: 8}, metrics, nil)
	d.Start(context.Background())
	defer d.Stop()

	d.StudentChanged(context.Background(), sampleEvent("evt-1"))

	require.Eventually(t, func() bool { return logSink.count() == 1 && redisSink.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, metrics.get(EventOutcomeQueued))
	require.Eventually(t, func() bool { return metrics.get(EventOutcomeDelivered) == 2 }, time.Second, 5*time.Millisecond)
}

func TestDispatcherDropsWhenBufferFull(t *testing.T) {
	sink := &recordingSink{name: "slow", entered: make(chan struct{}, 4), release: make(chan struct{})}
	metrics := &outcomeRecorder{}
	d := NewNotificationDispatcher([]EventSink{sink}, DispatcherConfig{Workers: 1, BufferSize: 1}, metrics, nil)
	d.Start(context.Background())
	defer d.Stop()

	d.StudentChanged(context.Background(), sampleEvent("evt-1"))
	<-sink.entered

	done := make(chan struct{})
	go func() {
		d.StudentChanged(context.Background(), sampleEvent("evt-2"))
		d.StudentChanged(context.Background(), sampleEvent("evt-3"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StudentChanged blocked on a full queue")
	}

	assert.Equal(t, 2, metrics.get(EventOutcomeQueued))
	assert.Equal(t, 1, metrics.get(EventOutcomeDropped))
	close(sink.release)
	require.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestDispatcherDoesNotRetryFailures(t *testing.T) {
	sink := &recordingSink{name: "broken", err: errors.New("redis down")}
	metrics := &outcomeRecorder{}
	d := NewNotificationDispatcher([]EventSink{sink}, DispatcherConfig{Workers: 1, BufferSize: 4}, metrics, nil)
	d.Start(context.Background())
	defer d.Stop()

	d.StudentChanged(context.Background(), sampleEvent("evt-1"))

	require.Eventually(t, func() bool { return metrics.get(EventOutcomeFailed) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, sink.count())
}

func TestDispatcherBeforeStartDrops(t *testing.T) {
	sink := &recordingSink{name: "log"}
	metrics := &outcomeRecorder{}
	d := NewNotificationDispatcher([]EventSink{sink}, DispatcherConfig{}, metrics, nil)

	d.StudentChanged(context.Background(), sampleEvent("evt-1"))

	assert.Equal(t, 1, metrics.get(EventOutcomeDropped))
	assert.Equal(t, 0, sink.count())
}

func TestDispatcherAsControllerObserver(t *testing.T) {
	sink := &recordingSink{name: "log"}
	d := NewNotificationDispatcher([]EventSink{sink}, DispatcherConfig{Workers: 1, BufferSize: 8}, nil, nil)
	d.Start(context.Background())
	defer d.Stop()

	ctrl := NewRosterController(&stubSource{students: fixtureRoster()}, nil, WithObservers(d))
	require.NoError(t, ctrl.LoadRoster(context.Background()))
	require.NoError(t, ctrl.SelectStudent(context.Background(), 2))

	require.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 5*time.Millisecond)
}
