package rabbitmq_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"resumebuilder/internal/logger"
	"resumebuilder/pkg/rabbitmq"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func delivery(t *testing.T, ack amqp.Acknowledger, body []byte) amqp.Delivery {
	t.Helper()
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, RoutingKey: rabbitmq.EventResumeDeleted, Body: body}
}

func TestNewPublishing(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msg, err := rabbitmq.NewPublishing(rabbitmq.ResumeEvent{
		Type:       rabbitmq.EventResumeCreated,
		ResumeID:   "a1",
		Name:       "Ada Lovelace",
		OccurredAt: at,
	}, "01HZX")
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, rabbitmq.EventResumeCreated, msg.Type)
	assert.Equal(t, "01HZX", msg.MessageId)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, at, msg.Timestamp)

	var decoded rabbitmq.ResumeEvent
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "a1", decoded.ResumeID)
	assert.Equal(t, "Ada Lovelace", decoded.Name)
}

func TestHandleDelivery_AcksOnSuccess(t *testing.T) {
	ack := &fakeAcknowledger{}
	var got rabbitmq.ResumeEvent

	rabbitmq.HandleDelivery(delivery(t, ack, []byte(`{"resumeId":"a1"}`)), func(evt rabbitmq.ResumeEvent) error {
		got = evt
		return nil
	}, logger.NewNop())

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.Equal(t, "a1", got.ResumeID)
	assert.Equal(t, rabbitmq.EventResumeDeleted, got.Type, "type falls back to the routing key")
}

func TestHandleDelivery_RequeuesOnHandlerError(t *testing.T) {
	ack := &fakeAcknowledger{}

	rabbitmq.HandleDelivery(delivery(t, ack, []byte(`{"type":"resume.deleted","resumeId":"a1"}`)), func(rabbitmq.ResumeEvent) error {
		return errors.New("redis down")
	}, logger.NewNop())

	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestHandleDelivery_DoesNotRequeueRedelivered(t *testing.T) {
	ack := &fakeAcknowledger{}
	d := delivery(t, ack, []byte(`{"resumeId":"a1"}`))
	d.Redelivered = true

	rabbitmq.HandleDelivery(d, func(rabbitmq.ResumeEvent) error {
		return errors.New("still failing")
	}, logger.NewNop())

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleDelivery_DropsMalformedBody(t *testing.T) {
	ack := &fakeAcknowledger{}
	called := false

	rabbitmq.HandleDelivery(delivery(t, ack, []byte("not json")), func(rabbitmq.ResumeEvent) error {
		called = true
		return nil
	}, logger.NewNop())

	assert.False(t, called)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}
