package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Notifier delivers the pipeline notifications a user cares about.
type Notifier interface {
	NotifyDealClosed(ctx context.Context, ev entity.PipelineEvent) error
	NotifyConnectionOnboarded(ctx context.Context, ev entity.PipelineEvent) error
}

// Consumer is satisfied by *amqp.Channel.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier Notifier
	Logger   *zap.Logger
}

func NewWorker(ch Consumer, notifier Notifier, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer on %s: %w", queueName, err)
	}

	w.Logger.Info("worker waiting for pipeline events", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var ev entity.PipelineEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		w.Logger.Error("invalid event payload, dead-lettering", zap.Error(err))
		d.Nack(false, false)
		return
	}

	log := w.Logger.With(
		zap.String("event_id", ev.ID),
		zap.String("event_type", string(ev.Type)),
		zap.String("owner_id", ev.OwnerID),
	)

	if err := w.processEvent(ctx, ev); err != nil {
		log.Error("event handling failed, dead-lettering", zap.Error(err))
		d.Nack(false, false)
		return
	}

	log.Debug("event handled")
	d.Ack(false)
}

func (w *Worker) processEvent(ctx context.Context, ev entity.PipelineEvent) error {
	switch ev.Type {
	case entity.EventDealStageChanged:
		if !ev.Stage.Closed() {
			return nil
		}
		return w.Notifier.NotifyDealClosed(ctx, ev)

	case entity.EventDealConverted:
		return w.Notifier.NotifyConnectionOnboarded(ctx, ev)

	case entity.EventLeadConverted:
		w.Logger.Info("lead converted",
			zap.Int64p("lead_id", ev.LeadID),
			zap.Int64p("deal_id", ev.DealID),
		)
		return nil

	default:
		// unknown types are acked so they do not pile up in the DLQ
		w.Logger.Warn("unknown event type, ignoring", zap.String("event_type", string(ev.Type)))
		return nil
	}
}
