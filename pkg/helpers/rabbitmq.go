package helpers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Typed messages advertise their kind in the AMQP type property.
type Typed interface {
	MessageType() string
}

// openQueue dials the broker and declares a durable queue on a fresh channel.
func openQueue(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

func closeQueue(conn *amqp.Connection, ch *amqp.Channel) {
	if ch != nil {
		_ = ch.Close()
	}
	if conn != nil {
		_ = conn.Close()
	}
}

// RabbitPublisher sends JSON messages to one queue through the default exchange.
type RabbitPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, ch, err := openQueue(url, queue)
	if err != nil {
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, Queue: queue}, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	closeQueue(p.conn, p.ch)
}

// PublishJSON publishes body as a persistent message.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	msg, err := jsonPublishing(body)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, "", p.Queue, false, false, msg)
}

func jsonPublishing(body any) (amqp.Publishing, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return amqp.Publishing{}, err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         b,
	}
	if t, ok := body.(Typed); ok {
		msg.Type = t.MessageType()
	}
	return msg, nil
}

// RabbitConsumer reads one queue with manual acknowledgements.
type RabbitConsumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

// NewRabbitConsumer limits unacknowledged deliveries to prefetch.
func NewRabbitConsumer(url, queue string, prefetch int) (*RabbitConsumer, error) {
	conn, ch, err := openQueue(url, queue)
	if err != nil {
		return nil, err
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		closeQueue(conn, ch)
		return nil, err
	}
	return &RabbitConsumer{conn: conn, ch: ch, Queue: queue}, nil
}

// Deliveries starts consuming. The channel closes when the consumer does.
func (c *RabbitConsumer) Deliveries(tag string) (<-chan amqp.Delivery, error) {
	return c.ch.Consume(c.Queue, tag, false, false, false, false, nil)
}

func (c *RabbitConsumer) Close() {
	if c == nil {
		return
	}
	closeQueue(c.conn, c.ch)
}
