package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/trade"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DefaultExchange receives every forwarded order event
const DefaultExchange = "order_events"

// amqpChannel is the part of *amqp.Channel the forwarder uses
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPForwarder is an event handler that republishes order events to a
// durable topic exchange, routed by event type.
type AMQPForwarder struct {
	mu         sync.Mutex // amqp channels must not publish concurrently
	conn       *amqp.Connection
	ch         amqpChannel
	exchange   string
	serializer *EventSerializer
	logger     *zap.Logger
}

// DialAMQPForwarder connects to the broker at url and declares exchange
func DialAMQPForwarder(url, exchange string, logger *zap.Logger) (*AMQPForwarder, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	f, err := NewAMQPForwarder(ch, exchange, logger)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	f.conn = conn
	return f, nil
}

// NewAMQPForwarder declares exchange on an open channel
func NewAMQPForwarder(ch amqpChannel, exchange string, logger *zap.Logger) (*AMQPForwarder, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQPForwarder{
		ch:         ch,
		exchange:   exchange,
		serializer: NewEventSerializer(),
		logger:     logger.Named("amqp"),
	}, nil
}

// Handle publishes event as a persistent JSON message
func (f *AMQPForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	body, err := f.serializer.Serialize(event)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID().String(),
		Timestamp:    event.OccurredAt(),
		Type:         event.EventType(),
		AppId:        "storefront",
		Body:         body,
	}

	f.mu.Lock()
	err = f.ch.PublishWithContext(ctx, f.exchange, event.EventType(), false, false, msg)
	f.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.EventType(), err)
	}

	f.logger.Debug("Forwarded event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()))
	return nil
}

// EventTypes returns the order events forwarded to the broker
func (f *AMQPForwarder) EventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
		trade.EventTypeOrderCancelled,
		trade.EventTypeOrderPaid,
		trade.EventTypeOrderRefunded,
	}
}

// Close closes the channel and, when dialled, the connection
func (f *AMQPForwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.ch.Close()
	if f.conn != nil {
		err = errors.Join(err, f.conn.Close())
	}
	return err
}

var _ shared.EventHandler = (*AMQPForwarder)(nil)
