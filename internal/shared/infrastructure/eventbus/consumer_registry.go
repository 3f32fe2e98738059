package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// ConsumerRegistry routes events to consumers by topic pattern, with the
// same rules the broker applies to queue bindings: words are separated by
// dots, "*" matches exactly one word and "#" matches zero or more.
type ConsumerRegistry struct {
	mu      sync.RWMutex
	entries []entry
	logger  *slog.Logger
}

type entry struct {
	consumer EventConsumer
	patterns []string
}

// NewConsumerRegistry creates an empty registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{logger: logger}
}

// Register adds a consumer under its declared patterns.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	patterns := consumer.EventTypes()

	r.mu.Lock()
	r.entries = append(r.entries, entry{consumer: consumer, patterns: patterns})
	r.mu.Unlock()

	r.logger.Debug("registered event consumer", "patterns", patterns)
}

// Consumers returns the consumers with a pattern matching routingKey, each
// once, in registration order.
func (r *ConsumerRegistry) Consumers(routingKey string) []EventConsumer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []EventConsumer
	for _, e := range r.entries {
		for _, p := range e.patterns {
			if MatchTopic(p, routingKey) {
				out = append(out, e.consumer)
				break
			}
		}
	}
	return out
}

// Patterns returns every registered pattern once, in registration order.
func (r *ConsumerRegistry) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, e := range r.entries {
		for _, p := range e.patterns {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Len returns the number of registered consumers.
func (r *ConsumerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Dispatch hands event to every matching consumer. A failing consumer does
// not stop the others; all failures are joined into the returned error.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *ConsumedEvent) error {
	consumers := r.Consumers(event.RoutingKey)
	if len(consumers) == 0 {
		r.logger.DebugContext(ctx, "no consumers for event", "routing_key", event.RoutingKey)
		return nil
	}

	var errs []error
	for i, consumer := range consumers {
		if err := consumer.Handle(ctx, event); err != nil {
			r.logger.ErrorContext(ctx, "consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"consumer", i,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("consumer %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// MatchTopic reports whether routingKey matches a topic pattern.
func MatchTopic(pattern, routingKey string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(routingKey, "."))
}

func matchWords(pattern, key []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case "#":
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchWords(rest, key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 {
				return false
			}
		default:
			if len(key) == 0 || pattern[0] != key[0] {
				return false
			}
		}
		pattern, key = pattern[1:], key[1:]
	}
	return len(key) == 0
}
