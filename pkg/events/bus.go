package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// TopicAssistantEvents is the in-process bus topic all assistant domain
// events are published on.
const TopicAssistantEvents = "assistant.events"

// Envelope is the wire form of an event on the bus.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// BusPublisher publishes events onto a watermill publisher.
type BusPublisher struct {
	publisher message.Publisher
}

var _ Publisher = &BusPublisher{}

func NewBusPublisher(publisher message.Publisher) *BusPublisher {
	return &BusPublisher{publisher: publisher}
}

func (p *BusPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(Envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.EventType())
	return p.publisher.Publish(TopicAssistantEvents, msg)
}
