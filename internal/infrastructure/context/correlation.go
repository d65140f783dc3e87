package context

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
)

type contextKey string

// CorrelationIDKey is the context key for correlation IDs.
const CorrelationIDKey contextKey = "correlation_id"

// WithCorrelationID returns ctx carrying correlationID. Every exchange with
// the fiscal service made under ctx is logged and audited with it.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// GetCorrelationID returns the correlation ID of ctx, or "" if none is set.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

var newUUID = uuid.NewV4

// NewCorrelationID returns a fresh random correlation ID. When the random
// source fails it falls back to a time based ID, never "".
func NewCorrelationID() string {
	id, err := newUUID()
	if err != nil {
		return fmt.Sprintf("corr-%d", time.Now().UnixNano())
	}
	return id.String()
}

// EnsureCorrelationID returns ctx unchanged when it already carries a
// correlation ID and a derived context with a new one otherwise.
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	if id := GetCorrelationID(ctx); id != "" {
		return ctx, id
	}
	id := NewCorrelationID()
	return WithCorrelationID(ctx, id), id
}
