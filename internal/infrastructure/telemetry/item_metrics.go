package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"hobbyshop/internal/domain/catalogs/item"
)

// ItemMetrics counts item lifecycle changes by event type.
type ItemMetrics struct {
	changes metric.Int64Counter
}

// NewItemMetrics registers the item instruments on meter.
func NewItemMetrics(meter metric.Meter) (*ItemMetrics, error) {
	changes, err := meter.Int64Counter("hobbyshop.item.changes",
		metric.WithDescription("Item lifecycle changes by event type"))
	if err != nil {
		return nil, err
	}
	return &ItemMetrics{changes: changes}, nil
}

// Record implements domain.Hook[*item.Change]. It runs inside the
// mutation's transaction, so rolled back changes are counted too.
func (m *ItemMetrics) Record(ctx context.Context, c *item.Change) error {
	m.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("event", c.EventType())))
	return nil
}
