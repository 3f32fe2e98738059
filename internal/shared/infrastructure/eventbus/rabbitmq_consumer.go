package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrConsumerRunning is returned by Start on a consumer that is already started.
var ErrConsumerRunning = errors.New("consumer already running")

// RabbitMQConsumerConfig configures the RabbitMQ consumer.
type RabbitMQConsumerConfig struct {
	URL       string
	QueueName string
	Exchange  string

	// Prefetch bounds unacknowledged deliveries. Defaults to 1.
	Prefetch int

	Logger *slog.Logger
}

// RabbitMQConsumer feeds events from a durable queue into a ConsumerRegistry.
// Each registered pattern becomes a queue binding.
type RabbitMQConsumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	exchange string
	registry *ConsumerRegistry
	logger   *slog.Logger

	mu        sync.Mutex
	running   bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewRabbitMQConsumer connects, declares the queue and applies the prefetch.
func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *ConsumerRegistry) (*RabbitMQConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.QueueName == "" {
		cfg.QueueName = DefaultConsumerQueueName
	}
	if cfg.Exchange == "" {
		cfg.Exchange = ExchangeName
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}

	conn, ch, err := dial(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		_ = shutdown(ch, conn)
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.QueueName, err)
	}
	if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
		_ = shutdown(ch, conn)
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	cfg.Logger.Info("RabbitMQ consumer connected",
		"queue", cfg.QueueName,
		"exchange", cfg.Exchange,
	)
	return &RabbitMQConsumer{
		conn:     conn,
		channel:  ch,
		queue:    cfg.QueueName,
		exchange: cfg.Exchange,
		registry: registry,
		logger:   cfg.Logger,
		done:     make(chan struct{}),
	}, nil
}

// RegisterConsumer adds consumer to the registry and binds its patterns.
func (c *RabbitMQConsumer) RegisterConsumer(consumer EventConsumer) {
	c.registry.Register(consumer)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pattern := range consumer.EventTypes() {
		if err := c.channel.QueueBind(c.queue, pattern, c.exchange, false, nil); err != nil {
			c.logger.Error("failed to bind queue",
				"queue", c.queue,
				"pattern", pattern,
				"error", err,
			)
			continue
		}
		c.logger.Debug("queue bound", "queue", c.queue, "pattern", pattern)
	}
}

// Start consumes until ctx ends or Close is called.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrConsumerRunning
	}
	c.running = true
	deliveries, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("started consuming events", "queue", c.queue)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed by broker")
			}
			c.settle(d, c.deliver(ctx, d))
		}
	}
}

// deliver decodes and dispatches one delivery. Undecodable bodies are
// dropped because redelivery cannot fix them.
func (c *RabbitMQConsumer) deliver(ctx context.Context, d amqp.Delivery) error {
	event, err := DecodeEvent(d.Body, d.RoutingKey)
	if err != nil {
		c.logger.Error("dropping undecodable event", "routing_key", d.RoutingKey, "error", err)
		return nil
	}

	start := time.Now()
	if err := c.registry.Dispatch(ctx, event); err != nil {
		return err
	}
	c.logger.Debug("event processed",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// settle acknowledges a delivery. A failed delivery is requeued once and
// dropped when it fails again.
func (c *RabbitMQConsumer) settle(d amqp.Delivery, err error) {
	var settleErr error
	switch {
	case err == nil:
		settleErr = d.Ack(false)
	case d.Redelivered:
		c.logger.Error("dropping event after failed redelivery", "routing_key", d.RoutingKey, "error", err)
		settleErr = d.Nack(false, false)
	default:
		c.logger.Warn("event handling failed, requeueing", "routing_key", d.RoutingKey, "error", err)
		settleErr = d.Nack(false, true)
	}
	if settleErr != nil {
		c.logger.Error("failed to settle delivery", "routing_key", d.RoutingKey, "error", settleErr)
	}
}

// Close stops Start and closes the channel and connection.
func (c *RabbitMQConsumer) Close() error {
	c.closeOnce.Do(func() { close(c.done) })

	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false

	if err := shutdown(c.channel, c.conn); err != nil {
		return err
	}
	c.logger.Info("RabbitMQ consumer closed")
	return nil
}
