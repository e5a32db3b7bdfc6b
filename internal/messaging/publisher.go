package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"food-order-system/internal/logger"
	"food-order-system/internal/models"
)

// OrderEvent is the wire format for order lifecycle events.
type OrderEvent struct {
	OrderID   int                `json:"order_id"`
	UserID    int                `json:"user_id"`
	Status    models.OrderStatus `json:"status"`
	Total     string             `json:"total"`
	Timestamp time.Time          `json:"timestamp"`
}

// Publisher emits order lifecycle events. Handlers treat publish failures as
// non-fatal: the order operation has already committed.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishOrderCreated announces a freshly placed order.
func (p *Publisher) PublishOrderCreated(ctx context.Context, order models.Order) error {
	return p.publish(ctx, "order.created", eventFor(order))
}

// PublishOrderStatusChanged announces a status transition.
func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, order models.Order) error {
	return p.publish(ctx, "order.status_changed", eventFor(order))
}

func eventFor(order models.Order) OrderEvent {
	return OrderEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    order.Status,
		Total:     order.Total.String(),
		Timestamp: time.Now().UTC(),
	}
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event OrderEvent) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: 2, // persistent
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.conn.Channel().PublishWithContext(
		ctx,
		OrderEventsExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		publishing,
	); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	// Mirror onto the fanout exchange for notification consumers.
	if err := p.conn.Channel().PublishWithContext(
		ctx,
		NotificationsExchange,
		"",
		false,
		false,
		publishing,
	); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	p.logger.Debug("event_published", "", fmt.Sprintf("Published %s", routingKey), map[string]any{
		"routing_key": routingKey,
		"order_id":    event.OrderID,
	})

	return nil
}

// Close closes the underlying connection.
func (p *Publisher) Close() error {
	return p.conn.Close()
}
