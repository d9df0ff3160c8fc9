package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

const Exchange = "smmpanel.events"

const (
	RouteOrderCompleted  = "order.completed"
	RouteOrderCanceled   = "order.canceled"
	RouteReceiptApproved = "receipt.approved"
)

type OrderEvent struct {
	OrderID   int64     `json:"order_id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

type ReceiptEvent struct {
	ReceiptID uuid.UUID `json:"receipt_id"`
	UserID    int64     `json:"user_id"`
	AmountUSD float64   `json:"amount_usd"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, body interface{}) error
	Close()
}

type Producer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewProducer(amqpURL string) (*Producer, error) {
	conn, err := amqp091.DialConfig(amqpURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Producer{conn: conn, channel: ch}, nil
}

func (p *Producer) Publish(ctx context.Context, routingKey string, body interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx,
		Exchange,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        jsonBody,
		},
	)
}

func (p *Producer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NopPublisher is used when the broker is unreachable at startup; wallet and
// order operations must not depend on the broker being up.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, routingKey string, body interface{}) error {
	log.Printf("Event publish skipped (no broker): %s", routingKey)
	return nil
}

func (NopPublisher) Close() {}
