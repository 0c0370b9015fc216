// internal/events/publisher.go
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Routing keys for ledger events.
const (
	RoutingKeyExpenseAdded = "expense.added"
	RoutingKeyDebtSettled  = "debt.settled"
)

// Publisher emits ledger events for downstream consumers. Publishing is
// best-effort: callers log failures and never fail the ledger operation.
type Publisher interface {
	PublishExpenseAdded(ctx context.Context, msg *ExpenseAddedMessage) error
	PublishDebtSettled(ctx context.Context, msg *DebtSettledMessage) error
	Close() error
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishExpenseAdded(ctx context.Context, msg *ExpenseAddedMessage) error {
	return nil
}

func (NoopPublisher) PublishDebtSettled(ctx context.Context, msg *DebtSettledMessage) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }

// AMQPPublisher publishes ledger events to a direct exchange.
type AMQPPublisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// NewAMQPPublisher dials the broker and declares the exchange and queue.
func NewAMQPPublisher(url, exchangeName, queueName string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &AMQPPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return p, nil
}

func (p *AMQPPublisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = p.channel.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range []string{RoutingKeyExpenseAdded, RoutingKeyDebtSettled} {
		if err := p.channel.QueueBind(p.queueName, key, p.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue for %s: %w", key, err)
		}
	}

	return nil
}

// PublishExpenseAdded publishes an expense-added event.
func (p *AMQPPublisher) PublishExpenseAdded(ctx context.Context, msg *ExpenseAddedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return p.publish(ctx, RoutingKeyExpenseAdded, body)
}

// PublishDebtSettled publishes a debt-settled event.
func (p *AMQPPublisher) PublishDebtSettled(ctx context.Context, msg *DebtSettledMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return p.publish(ctx, RoutingKeyDebtSettled, body)
}

func (p *AMQPPublisher) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent, // make message persistent
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return fmt.Errorf("close channel: %w", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	return nil
}
