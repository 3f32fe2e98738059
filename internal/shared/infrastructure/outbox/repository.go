package outbox

import (
	"context"
	"errors"
	"time"
)

// ErrFull is returned by Save when the repository holds its maximum number
// of pending messages.
var ErrFull = errors.New("outbox is full")

// Repository defines the interface for outbox persistence.
type Repository interface {
	// Save stores a new outbox message.
	Save(ctx context.Context, msg *Message) error

	// GetUnpublished retrieves messages due for delivery ordered by creation time.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	// MarkPublished marks a message as successfully published.
	MarkPublished(ctx context.Context, id int64) error

	// MarkFailed records a publish failure with error message.
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error

	// MarkDead marks a message as dead-lettered.
	MarkDead(ctx context.Context, id int64, reason string) error

	// Pending returns the number of messages neither published nor dead-lettered.
	Pending(ctx context.Context) (int, error)
}
