package observability

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	correlationCtxKey ctxKey = iota
	operationCtxKey
)

// Log attribute names filled from the context.
const (
	CorrelationIDKey = "correlation_id"
	OperationKey     = "operation"
)

// WithCorrelationID tags ctx with a correlation id, generating one when id
// is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationCtxKey, id)
}

// CorrelationIDFromContext returns the correlation id of ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationCtxKey)
}

// WithOperation tags ctx with the registry operation being performed.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationCtxKey, operation)
}

// OperationFromContext returns the operation of ctx, or "".
func OperationFromContext(ctx context.Context) string {
	return stringValue(ctx, operationCtxKey)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}
