package usecases

import (
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/logger"
)

// publishEvents hands committed changes to subscribers. Delivery is best
// effort; a failure never fails the request that produced the event.
func publishEvents(publisher events.EventPublisher, log logger.Interface, evts ...events.DomainEvent) {
	if publisher == nil {
		return
	}
	for _, e := range evts {
		if err := publisher.Publish(e); err != nil {
			log.Warnw("failed to publish domain event",
				"event_type", e.GetEventType(),
				"aggregate_id", e.GetAggregateID(),
				"error", err,
			)
		}
	}
}
