package service

import (
	"context"
	"encoding/json"

	"ai-sitebuilder-be/internal/pkg/logger"
	"ai-sitebuilder-be/pkg/events"
	pktNats "ai-sitebuilder-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains the in-process event bus in the background:
// every assistant event is written to the audit log and, when NATS is
// configured, republished for external subscribers.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher // nil when NATS is not configured
	log     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	natsPub *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:  pubSub,
		natsPub: natsPub,
		log:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, events.TopicAssistantEvents)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope events.Envelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.log.Error("consumer_service", "failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		// Ack malformed messages to prevent infinite retry.
		msg.Ack()
		return
	}

	cs.log.Info("consumer_service", "assistant event", map[string]interface{}{
		"type":        envelope.Type,
		"data":        envelope.Data,
		"occurred_at": envelope.OccurredAt,
	})

	if cs.natsPub != nil {
		event := events.BaseEvent{
			Type:       envelope.Type,
			Data:       envelope.Data,
			OccurredAt: envelope.OccurredAt,
		}
		if err := cs.natsPub.Publish(ctx, event); err != nil {
			cs.log.Warn("consumer_service", "nats republish failed", map[string]interface{}{
				"type":  envelope.Type,
				"error": err.Error(),
			})
			msg.Nack()
			return
		}
	}

	msg.Ack()
}
