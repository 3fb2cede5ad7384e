package event

import (
	"context"
	"time"

	"github.com/rentquote/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is how long a handled event ID is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotentHandler wraps an EventHandler so each event ID is handled once
// per handler. A failed handling releases the key so redelivery retries it.
type IdempotentHandler struct {
	name    string
	handler shared.EventHandler
	store   shared.IdempotencyStore
	ttl     time.Duration
	logger  *zap.Logger
}

// NewIdempotentHandler wraps handler. name keeps keys of different handlers
// for the same event apart.
func NewIdempotentHandler(name string, handler shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger) *IdempotentHandler {
	return &IdempotentHandler{
		name:    name,
		handler: handler,
		store:   store,
		ttl:     DefaultIdempotencyTTL,
		logger:  logger,
	}
}

// EventTypes delegates to the wrapped handler
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle processes evt unless it was already processed
func (h *IdempotentHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	key := "event:" + h.name + ":" + evt.EventID().String()

	isNew, err := h.store.MarkProcessed(ctx, key, h.ttl)
	switch {
	case err != nil:
		// Duplicates are preferable to dropped ledger postings
		h.logger.Warn("idempotency check failed, processing anyway",
			zap.String("event_id", evt.EventID().String()),
			zap.Error(err),
		)
	case !isNew:
		h.logger.Debug("duplicate event skipped",
			zap.String("handler", h.name),
			zap.String("event_id", evt.EventID().String()),
		)
		return nil
	}

	if err := h.handler.Handle(ctx, evt); err != nil {
		if relErr := h.store.Release(ctx, key); relErr != nil {
			h.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
		}
		return err
	}
	return nil
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
