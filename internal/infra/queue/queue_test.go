package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type fakePublisher struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

type fakeAck struct {
	acked, nacked, requeued bool
}

func (a *fakeAck) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}
func (a *fakeAck) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}

type fakeNotifier struct {
	closed    []entity.PipelineEvent
	onboarded []entity.PipelineEvent
	err       error
}

func (n *fakeNotifier) NotifyDealClosed(_ context.Context, ev entity.PipelineEvent) error {
	n.closed = append(n.closed, ev)
	return n.err
}

func (n *fakeNotifier) NotifyConnectionOnboarded(_ context.Context, ev entity.PipelineEvent) error {
	n.onboarded = append(n.onboarded, ev)
	return n.err
}

type fakeConsumer struct {
	ch  chan amqp.Delivery
	err error
}

func (c *fakeConsumer) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return c.ch, c.err
}

type topologyCall struct {
	op, name, kind, exchange string
	args                     amqp.Table
}

type fakeTopology struct {
	calls  []topologyCall
	failOn string
}

func (f *fakeTopology) ExchangeDeclare(name, kind string, _, _, _, _ bool, args amqp.Table) error {
	f.calls = append(f.calls, topologyCall{op: "exchange", name: name, kind: kind, args: args})
	if f.failOn == name {
		return errors.New("declare failed")
	}
	return nil
}

func (f *fakeTopology) QueueDeclare(name string, _, _, _, _ bool, args amqp.Table) (amqp.Queue, error) {
	f.calls = append(f.calls, topologyCall{op: "queue", name: name, args: args})
	if f.failOn == name {
		return amqp.Queue{}, errors.New("declare failed")
	}
	return amqp.Queue{Name: name}, nil
}

func (f *fakeTopology) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	f.calls = append(f.calls, topologyCall{op: "bind", name: name, kind: key, exchange: exchange})
	return nil
}

func delivery(t *testing.T, ack *fakeAck, ev entity.PipelineEvent) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestSetupTopology(t *testing.T) {
	ch := &fakeTopology{}
	require.NoError(t, setupTopology(ch))

	var mainQueue *topologyCall
	for i, c := range ch.calls {
		if c.op == "queue" && c.name == QueueName {
			mainQueue = &ch.calls[i]
		}
	}
	require.NotNil(t, mainQueue)
	assert.Equal(t, DLXName, mainQueue.args["x-dead-letter-exchange"])

	last := ch.calls[len(ch.calls)-1]
	assert.Equal(t, topologyCall{op: "bind", name: QueueName, kind: RoutingPattern, exchange: ExchangeName}, last)
}

func TestSetupTopology_StopsOnError(t *testing.T) {
	ch := &fakeTopology{failOn: DLQName}
	assert.Error(t, setupTopology(ch))
	assert.Len(t, ch.calls, 2)
}

func TestPublishEvent(t *testing.T) {
	pub := &fakePublisher{}
	dealID := int64(7)
	at := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	ev := entity.PipelineEvent{
		ID:         "evt-1",
		Type:       entity.EventDealStageChanged,
		OwnerID:    "owner",
		DealID:     &dealID,
		Stage:      entity.StageCompleted,
		OccurredAt: at,
	}

	require.NoError(t, NewProducer(pub).PublishEvent(context.Background(), ev))

	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, "pipeline.deal.stage_changed", pub.key)
	assert.Equal(t, "evt-1", pub.msg.MessageId)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, at, pub.msg.Timestamp)

	var decoded entity.PipelineEvent
	require.NoError(t, json.Unmarshal(pub.msg.Body, &decoded))
	assert.Equal(t, ev.Stage, decoded.Stage)
	assert.Equal(t, dealID, *decoded.DealID)
}

func TestPublishEvent_WrapsError(t *testing.T) {
	boom := errors.New("channel closed")
	pub := &fakePublisher{err: boom}

	err := NewProducer(pub).PublishEvent(context.Background(), entity.PipelineEvent{Type: entity.EventLeadConverted})
	assert.ErrorIs(t, err, boom)
}

func TestWorker_Routing(t *testing.T) {
	tests := []struct {
		name          string
		ev            entity.PipelineEvent
		wantClosed    int
		wantOnboarded int
	}{
		{"closed deal", entity.PipelineEvent{Type: entity.EventDealStageChanged, Stage: entity.StageCompleted}, 1, 0},
		{"unsuccessful deal", entity.PipelineEvent{Type: entity.EventDealStageChanged, Stage: entity.StageUnsuccessful}, 1, 0},
		{"open stage", entity.PipelineEvent{Type: entity.EventDealStageChanged, Stage: entity.StageVerificationNeeded}, 0, 0},
		{"deal converted", entity.PipelineEvent{Type: entity.EventDealConverted, Name: "Acme"}, 0, 1},
		{"lead converted", entity.PipelineEvent{Type: entity.EventLeadConverted}, 0, 0},
		{"unknown", entity.PipelineEvent{Type: "task.deleted"}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &fakeNotifier{}
			w := NewWorker(nil, n, zaptest.NewLogger(t))
			ack := &fakeAck{}

			w.handleDelivery(context.Background(), delivery(t, ack, tt.ev))

			assert.True(t, ack.acked)
			assert.False(t, ack.nacked)
			assert.Len(t, n.closed, tt.wantClosed)
			assert.Len(t, n.onboarded, tt.wantOnboarded)
		})
	}
}

func TestWorker_BadPayloadIsDeadLettered(t *testing.T) {
	w := NewWorker(nil, &fakeNotifier{}, zaptest.NewLogger(t))
	ack := &fakeAck{}

	w.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
	assert.False(t, ack.acked)
}

func TestWorker_NotifierFailureIsDeadLettered(t *testing.T) {
	w := NewWorker(nil, &fakeNotifier{err: errors.New("smtp down")}, zaptest.NewLogger(t))
	ack := &fakeAck{}

	w.handleDelivery(context.Background(), delivery(t, ack, entity.PipelineEvent{Type: entity.EventDealConverted}))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestWorker_StartStopsOnContextCancel(t *testing.T) {
	msgs := make(chan amqp.Delivery, 1)
	n := &fakeNotifier{}
	w := NewWorker(&fakeConsumer{ch: msgs}, n, zaptest.NewLogger(t))
	ack := &fakeAck{}
	msgs <- delivery(t, ack, entity.PipelineEvent{Type: entity.EventDealConverted})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, QueueName) }()

	require.Eventually(t, func() bool { return len(msgs) == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_StartReturnsWhenChannelCloses(t *testing.T) {
	msgs := make(chan amqp.Delivery)
	close(msgs)
	w := NewWorker(&fakeConsumer{ch: msgs}, &fakeNotifier{}, zaptest.NewLogger(t))

	assert.Error(t, w.Start(context.Background(), QueueName))
}

func TestWorker_StartConsumeError(t *testing.T) {
	w := NewWorker(&fakeConsumer{err: errors.New("no channel")}, &fakeNotifier{}, zaptest.NewLogger(t))
	assert.Error(t, w.Start(context.Background(), QueueName))
}
