package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	ExchangeName  = "scheduler.events"
	routingPrefix = "changes."
)

// AMQP publishes changes to a topic exchange. Each subscriber binds its own
// exclusive, auto-deleted queue to "changes.#".
type AMQP struct {
	conn   *amqp091.Connection
	logger *zap.Logger

	mu sync.Mutex
	ch *amqp091.Channel
}

func NewAMQP(url string, logger *zap.Logger) (*AMQP, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareExchange(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQP{conn: conn, ch: ch, logger: logger}, nil
}

func declareExchange(ch *amqp091.Channel) error {
	return ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

func (a *AMQP) Publish(ctx context.Context, c Change) error {
	body, err := encode(c)
	if err != nil {
		return err
	}

	// amqp091.Channel не потокобезопасен для публикации
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.ch.PublishWithContext(ctx,
		ExchangeName,
		routingPrefix+c.Table,
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (a *AMQP) Subscribe(ctx context.Context) (<-chan Change, error) {
	ch, err := a.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, routingPrefix+"#", ExchangeName, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to consume: %w", err)
	}

	out := make(chan Change, subscriberBuffer)
	go func() {
		defer close(out)
		defer ch.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					a.logger.Warn("amqp delivery channel closed")
					return
				}
				select {
				case out <- decode(d.Body):
				default:
				}
			}
		}
	}()
	return out, nil
}

func (a *AMQP) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ch != nil {
		_ = a.ch.Close()
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
