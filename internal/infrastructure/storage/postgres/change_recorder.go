package postgres

import (
	"context"

	"hobbyshop/internal/domain/catalogs/item"
)

// ItemAggregate is the aggregate/entity type recorded for item changes.
const ItemAggregate = "Item"

// ChangeRecorder writes an audit entry and an outbox event for each item
// change. Register it with Manager.Hooks().OnAfterChange so both rows commit
// in the same transaction as the change.
type ChangeRecorder struct {
	audit  *AuditService
	outbox *OutboxPublisher
}

// NewChangeRecorder creates a new change recorder.
func NewChangeRecorder(audit *AuditService, outbox *OutboxPublisher) *ChangeRecorder {
	return &ChangeRecorder{audit: audit, outbox: outbox}
}

// ItemChangedEvent is the outbox payload for item changes.
type ItemChangedEvent struct {
	Action     item.Action `json:"action"`
	Item       *item.Item  `json:"item"`
	Historical bool        `json:"historical"`
}

// Record implements domain.Hook[*item.Change].
func (r *ChangeRecorder) Record(ctx context.Context, c *item.Change) error {
	if r.audit != nil {
		if err := r.audit.LogChange(ctx, ItemAggregate, c.Item.ID, auditAction(c.Action), ChangeSet(c)); err != nil {
			return err
		}
	}

	if r.outbox != nil {
		return r.outbox.Publish(ctx, DomainEvent{
			AggregateType: ItemAggregate,
			AggregateID:   c.Item.ID,
			EventType:     c.EventType(),
			Payload: ItemChangedEvent{
				Action:     c.Action,
				Item:       c.Item,
				Historical: c.Item.IsHistorical(),
			},
		})
	}
	return nil
}

// ChangeSet returns the column diff a change produced. Creates diff against
// an empty row, so every set column appears with old = nil.
func ChangeSet(c *item.Change) map[string]any {
	var before map[string]any
	if c.Previous != nil {
		before = StructToMap(c.Previous, "id")
	}
	after := StructToMap(c.Item, "id")

	changes := Diff(before, after)
	for col, v := range changes {
		pair := v.(map[string]any)
		if deref(pair["old"]) == nil && deref(pair["new"]) == nil {
			delete(changes, col)
		}
	}
	return changes
}

func auditAction(a item.Action) AuditAction {
	switch a {
	case item.ActionCreate:
		return AuditActionCreate
	case item.ActionHistorical:
		return AuditActionHistorical
	}
	return AuditActionUpdate
}
