// Package events publishes order lifecycle events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/pricing"
)

const RoutingOrderPlaced = "order.placed"

// Publisher emits order events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
	Close() error
}

// OrderPlaced amounts are rounded.
type OrderPlaced struct {
	OrderID     string           `json:"orderId"`
	Restaurant  string           `json:"restaurantId"`
	CartID      string           `json:"cartId"`
	TableNumber string           `json:"tableNumber,omitempty"`
	OrderType   domain.OrderType `json:"orderType"`
	ItemCount   int              `json:"itemCount"`
	Subtotal    float64          `json:"subtotal"`
	TotalTax    float64          `json:"totalTax"`
	FinalTotal  float64          `json:"finalTotal"`
	PlacedAt    time.Time        `json:"placedAt"`
}

func NewOrderPlaced(order domain.Order) OrderPlaced {
	items := 0
	for _, it := range order.Items {
		items += it.Quantity
	}
	return OrderPlaced{
		OrderID:     order.ID,
		Restaurant:  order.RestaurantID,
		CartID:      order.CartID,
		TableNumber: order.TableNumber,
		OrderType:   order.OrderType,
		ItemCount:   items,
		Subtotal:    pricing.Round(order.Subtotal),
		TotalTax:    pricing.Round(order.TotalTax),
		FinalTotal:  pricing.Round(order.FinalTotal),
		PlacedAt:    order.CreatedAt,
	}
}

type rabbitPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *log.Logger
}

// NewRabbitMQ dials url and declares a durable topic exchange.
func NewRabbitMQ(url, exchange string, logger *log.Logger) (Publisher, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &rabbitPublisher{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

func (p *rabbitPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	body, err := json.Marshal(NewOrderPlaced(order))
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		MessageId:    order.ID,
		Type:         RoutingOrderPlaced,
		Body:         body,
	}
	if err := p.channel.PublishWithContext(ctx, p.exchange, RoutingOrderPlaced, false, false, msg); err != nil {
		return fmt.Errorf("publish %s order_id=%s: %w", RoutingOrderPlaced, order.ID, err)
	}
	p.logger.Printf("events: published %s order_id=%s exchange=%s", RoutingOrderPlaced, order.ID, p.exchange)
	return nil
}

func (p *rabbitPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

type noopPublisher struct {
	logger *log.Logger
}

func Noop(logger *log.Logger) Publisher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return noopPublisher{logger: logger}
}

func (n noopPublisher) PublishOrderPlaced(_ context.Context, order domain.Order) error {
	n.logger.Printf("events: broker disabled, dropping %s order_id=%s", RoutingOrderPlaced, order.ID)
	return nil
}

func (noopPublisher) Close() error { return nil }
