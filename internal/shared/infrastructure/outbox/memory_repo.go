package outbox

import (
	"context"
	"sync"
	"time"
)

// DefaultCapacity bounds the pending messages of a MemoryRepository.
const DefaultCapacity = 10000

// MemoryRepository keeps outbox messages in process memory. Published
// messages are dropped immediately; dead-lettered ones are kept for
// inspection until they are evicted by newer dead letters.
type MemoryRepository struct {
	mu       sync.Mutex
	pending  []*Message
	dead     []*Message
	nextID   int64
	capacity int
}

// NewMemoryRepository creates an in-memory repository holding at most
// capacity pending messages. A non-positive capacity uses DefaultCapacity.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryRepository{
		nextID:   1,
		capacity: capacity,
	}
}

func (r *MemoryRepository) Save(ctx context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) >= r.capacity {
		return ErrFull
	}
	msg.ID = r.nextID
	r.nextID++
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	r.pending = append(r.pending, msg)
	return nil
}

func (r *MemoryRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*Message
	now := time.Now()
	for _, msg := range r.pending {
		if !msg.Due(now) {
			continue
		}
		result = append(result, msg)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *MemoryRepository) MarkPublished(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg := r.removeLocked(id); msg != nil {
		now := time.Now()
		msg.PublishedAt = &now
	}
	return nil
}

func (r *MemoryRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, msg := range r.pending {
		if msg.ID == id {
			msg.RetryCount++
			msg.LastError = errMsg
			msg.NextRetryAt = &nextRetryAt
			return nil
		}
	}
	return nil
}

func (r *MemoryRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := r.removeLocked(id)
	if msg == nil {
		return nil
	}
	now := time.Now()
	msg.DeadLetteredAt = &now
	msg.DeadLetterReason = reason
	if len(r.dead) >= r.capacity {
		r.dead = r.dead[1:]
	}
	r.dead = append(r.dead, msg)
	return nil
}

func (r *MemoryRepository) Pending(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending), nil
}

// DeadLetters returns the dead-lettered messages, oldest first.
func (r *MemoryRepository) DeadLetters() []*Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Message(nil), r.dead...)
}

func (r *MemoryRepository) removeLocked(id int64) *Message {
	for i, msg := range r.pending {
		if msg.ID == id {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return msg
		}
	}
	return nil
}
