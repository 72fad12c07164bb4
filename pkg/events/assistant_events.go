package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeComponentUpdated = "COMPONENT_UPDATED"
	TypeComponentDeleted = "COMPONENT_DELETED"
	TypeDesignUpdated    = "DESIGN_UPDATED"
	TypeTagAttached      = "TAG_ATTACHED"
	TypeTagDetached      = "TAG_DETACHED"
)

// Publisher delivers domain events to the event bus. Implementations must
// be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards events; used in tests and CLI tools.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func NewComponentUpdated(siteId, componentId uuid.UUID, fields []string) Event {
	return BaseEvent{
		Type: TypeComponentUpdated,
		Data: map[string]interface{}{
			"site_id":      siteId.String(),
			"component_id": componentId.String(),
			"fields":       fields,
		},
		OccurredAt: time.Now(),
	}
}

func NewComponentDeleted(siteId, componentId uuid.UUID) Event {
	return BaseEvent{
		Type: TypeComponentDeleted,
		Data: map[string]interface{}{
			"site_id":      siteId.String(),
			"component_id": componentId.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewDesignUpdated(siteId uuid.UUID, fields []string) Event {
	return BaseEvent{
		Type: TypeDesignUpdated,
		Data: map[string]interface{}{
			"site_id": siteId.String(),
			"fields":  fields,
		},
		OccurredAt: time.Now(),
	}
}

func NewTagChanged(eventType string, componentId, tagId uuid.UUID, stillTagged bool) Event {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"component_id": componentId.String(),
			"tag_id":       tagId.String(),
			"still_tagged": stillTagged,
		},
		OccurredAt: time.Now(),
	}
}
