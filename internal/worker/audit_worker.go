package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/kzl/storefront-api/internal/model"
	"github.com/kzl/storefront-api/internal/repository"
)

const (
	orderEventsQueue = "order-events"
	dlxExchange      = "order-events.dlx"
	dlqQueueName     = "order-events.dlq"
	idempotencyTTL   = 24 * time.Hour
)

// AuditWorker consumes order lifecycle events and records them in the audit
// log collection for the admin panel.
type AuditWorker struct {
	channel     *amqp.Channel
	auditRepo   repository.AuditRepository
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
}

func NewAuditWorker(
	ch *amqp.Channel,
	auditRepo repository.AuditRepository,
	redisClient *redis.Client,
	log *slog.Logger,
) *AuditWorker {
	return &AuditWorker{
		channel:     ch,
		auditRepo:   auditRepo,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
	}
}

// SetupRabbitMQ declares exchanges, queues, and bindings (DLX/DLQ).
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, orderEventsQueue, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(orderEventsQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": orderEventsQueue,
	}); err != nil {
		return fmt.Errorf("declare order events queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *AuditWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("audit worker started")
	return nil
}

func (w *AuditWorker) Stop() { close(w.done) }

func (w *AuditWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event model.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		w.log.Error("unmarshal order event", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("event_id", event.EventID, "order_id", event.OrderID, "action", event.Action)

	// Redelivery after a crash must not produce duplicate audit entries.
	idempotencyKey := "order_event:" + event.EventID
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("event already recorded, skipping")
		_ = msg.Ack(false)
		return
	}

	entry := &repository.AuditLog{
		ID:       event.EventID,
		Action:   event.Action,
		EntityID: event.OrderID,
		UserID:   event.UserID,
		Detail:   event.Detail,
	}
	if err := w.auditRepo.Create(ctx, entry); err != nil {
		log.Error("record audit entry failed", "error", err)
		_ = msg.Nack(false, false) // → DLQ
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("order event recorded")
}
