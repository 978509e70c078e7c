package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/ghuser/shoppinglist/services/item"

type storeMetrics struct {
	created             metric.Int64Counter
	bought              metric.Int64Counter
	reactivated         metric.Int64Counter
	duplicatesRemoved   metric.Int64Counter
	persistenceFailures metric.Int64Counter
}

// newStoreMetrics registers the item counters on the global meter provider.
// Instruments that fail to register fall back to no-ops.
func newStoreMetrics() *storeMetrics {
	meter := otel.Meter(meterName)
	fallback := noop.NewMeterProvider().Meter(meterName)

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}

	return &storeMetrics{
		created:             counter("shoppinglist.items.created", "Items added to the list"),
		bought:              counter("shoppinglist.items.bought", "Items moved to the bought list"),
		reactivated:         counter("shoppinglist.items.reactivated", "Bought items moved back to the active list"),
		duplicatesRemoved:   counter("shoppinglist.items.duplicates_removed", "Items deleted by duplicate sweeps"),
		persistenceFailures: counter("shoppinglist.items.persistence_failures", "Mutations kept in memory but not stored"),
	}
}

func (m *storeMetrics) persistenceFailed(ctx context.Context, op string) {
	m.persistenceFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
