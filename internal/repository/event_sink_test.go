package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/student-roster/internal/models"
)

type fakePublisher struct {
	channel  string
	messages [][]byte
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.channel = channel
	f.messages = append(f.messages, message.([]byte))
	cmd.SetVal(1)
	return cmd
}

func committedEvent() models.StudentEvent {
	return models.StudentEvent{
		ID:         "evt-1",
		Kind:       models.EventStudentCommitted,
		Student:    DemoRoster()[0],
		OccurredAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestRedisEventPublisherPublishesCommits(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewRedisEventPublisher(pub, "roster:students", nil)

	require.NoError(t, sink.Deliver(context.Background(), committedEvent()))

	assert.Equal(t, "roster:students", pub.channel)
	require.Len(t, pub.messages, 1)
	var decoded models.StudentEvent
	require.NoError(t, json.Unmarshal(pub.messages[0], &decoded))
	assert.Equal(t, "evt-1", decoded.ID)
	assert.Equal(t, "Ahri", decoded.Student.Name)
	assert.Len(t, decoded.Student.Subjects, 3)
}

func TestRedisEventPublisherIgnoresSelections(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewRedisEventPublisher(pub, "roster:students", nil)
	event := committedEvent()
	event.Kind = models.EventStudentSelected

	require.NoError(t, sink.Deliver(context.Background(), event))
	assert.Empty(t, pub.messages)
}

func TestRedisEventPublisherError(t *testing.T) {
	sink := NewRedisEventPublisher(&fakePublisher{err: errors.New("connection refused")}, "roster:students", nil)
	err := sink.Deliver(context.Background(), committedEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEventLogSinkLogsEveryEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewEventLogSink(zap.New(core))

	require.NoError(t, sink.Deliver(context.Background(), committedEvent()))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "student committed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1), fields["student_id"])
	assert.Equal(t, "Ahri", fields["name"])
	assert.Equal(t, "log", sink.Name())
}
