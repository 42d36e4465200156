// Package event dispatches the domain events recorded by aggregates once
// their changes have been persisted.
package event

import (
	"context"

	"github.com/dripnest/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// PublishAggregateEvents hands the aggregate's pending events to publisher and
// clears them. A publish failure is logged; the write has already committed.
func PublishAggregateEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	defer aggregate.ClearDomainEvents()
	if publisher == nil {
		return
	}

	if err := publisher.Publish(ctx, events...); err != nil {
		if logger == nil {
			logger = zap.NewNop()
		}
		logger.Error("Failed to publish domain events",
			zap.String("aggregate_id", aggregate.GetID().String()),
			zap.Int("count", len(events)),
			zap.Error(err))
	}
}
