package outbox

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

// ProcessorConfig controls redelivery of parked events.
type ProcessorConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// MaxRetries is the number of failed deliveries after which a message
	// is dead-lettered.
	MaxRetries  int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// DefaultProcessorConfig returns the redelivery defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval: time.Second,
		BatchSize:    100,
		MaxRetries:   5,
		BackoffBase:  time.Second,
		BackoffMax:   time.Minute,
	}
}

// Backoff returns the delay before the given retry attempt. It starts at
// BackoffBase, doubles per attempt and never exceeds BackoffMax.
func (c ProcessorConfig) Backoff(attempt int) time.Duration {
	d := c.BackoffBase
	for i := 1; i < attempt; i++ {
		if d >= c.BackoffMax {
			break
		}
		d *= 2
	}
	if c.BackoffMax > 0 && d > c.BackoffMax {
		return c.BackoffMax
	}
	return d
}

// Stats summarises what a Processor has done since it was created.
type Stats struct {
	Running      bool   `json:"running"`
	Delivered    uint64 `json:"delivered"`
	Retried      uint64 `json:"retried"`
	DeadLettered uint64 `json:"dead_lettered"`
	LastError    string `json:"last_error,omitempty"`
}

// Processor redelivers parked events to the broker.
type Processor struct {
	repo    Repository
	next    eventbus.Publisher
	cfg     ProcessorConfig
	logger  *slog.Logger
	metrics observability.Metrics

	delivered atomic.Uint64
	retried   atomic.Uint64
	dead      atomic.Uint64
	lastError atomic.Pointer[string]

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewProcessor creates a processor that drains repo into next.
func NewProcessor(repo Repository, next eventbus.Publisher, cfg ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultProcessorConfig().BatchSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultProcessorConfig().PollInterval
	}
	return &Processor{
		repo:    repo,
		next:    next,
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NoopMetrics{},
	}
}

// WithMetrics records delivery counters to m.
func (p *Processor) WithMetrics(m observability.Metrics) *Processor {
	if m != nil {
		p.metrics = m
	}
	return p
}

// Start polls the repository until ctx ends or Stop is called. Starting a
// running processor is a no-op.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)

	p.logger.Info("outbox processor started",
		"poll_interval", p.cfg.PollInterval,
		"max_retries", p.cfg.MaxRetries,
	)
	return nil
}

// Stop halts polling and waits for the current batch to finish.
func (p *Processor) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info("outbox processor stopped")
}

// IsRunning reports whether the polling loop is active.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Processor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.Flush(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("outbox flush failed", "error", err)
			}
		}
	}
}

// Flush makes one delivery attempt for every message that is due and returns
// how many were delivered.
func (p *Processor) Flush(ctx context.Context) (int, error) {
	due, err := p.repo.GetUnpublished(ctx, p.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, msg := range due {
		if err := ctx.Err(); err != nil {
			return delivered, err
		}
		ok, err := p.deliver(ctx, msg)
		if err != nil {
			return delivered, err
		}
		if ok {
			delivered++
		}
	}
	return delivered, nil
}

// deliver publishes msg and records the outcome. The returned error is a
// repository failure; broker failures only reschedule the message.
func (p *Processor) deliver(ctx context.Context, msg *Message) (bool, error) {
	pubErr := p.next.Publish(ctx, msg.RoutingKey, msg.Payload)
	if pubErr == nil {
		p.delivered.Add(1)
		p.metrics.Counter(observability.MetricOutboxDelivered, 1)
		return true, p.repo.MarkPublished(ctx, msg.ID)
	}

	reason := pubErr.Error()
	p.lastError.Store(&reason)

	if msg.Exhausted(p.cfg.MaxRetries) {
		p.dead.Add(1)
		p.metrics.Counter(observability.MetricOutboxDeadLettered, 1)
		p.logger.Error("event dead-lettered",
			"routing_key", msg.RoutingKey,
			"event_id", msg.EventID,
			"attempts", msg.RetryCount+1,
			"error", pubErr,
		)
		return false, p.repo.MarkDead(ctx, msg.ID, reason)
	}

	p.retried.Add(1)
	p.metrics.Counter(observability.MetricOutboxRetried, 1)
	next := time.Now().Add(p.cfg.Backoff(msg.RetryCount + 1))
	p.logger.Warn("event redelivery failed",
		"routing_key", msg.RoutingKey,
		"event_id", msg.EventID,
		"retry_at", next,
		"error", pubErr,
	)
	return false, p.repo.MarkFailed(ctx, msg.ID, reason, next)
}

// Stats returns the processor counters.
func (p *Processor) Stats() Stats {
	s := Stats{
		Running:      p.IsRunning(),
		Delivered:    p.delivered.Load(),
		Retried:      p.retried.Load(),
		DeadLettered: p.dead.Load(),
	}
	if last := p.lastError.Load(); last != nil {
		s.LastError = *last
	}
	return s
}

// Pending returns the number of parked messages awaiting delivery.
func (p *Processor) Pending(ctx context.Context) (int, error) {
	return p.repo.Pending(ctx)
}
