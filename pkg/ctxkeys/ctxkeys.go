// Package ctxkeys carries a request-scoped correlation id through a
// context.Context so log lines emitted across the transport and dispatch
// layers for the same inbound message can be tied together.
package ctxkeys

import (
	"context"

	"github.com/google/uuid"
)

type key string

const correlationIDKey = key("correlation-id")

// WithCorrelationID returns a context carrying id. An empty id generates a
// fresh uuid-v4.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationIDKey, id)
}

// GetCorrelationID returns the correlation id carried by ctx, or "" if none.
func GetCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}
