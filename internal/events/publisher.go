// Package events publishes container lifecycle and membership events to the
// message queue for downstream consumers (notifications, projections).
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/riquemorozine/containers-api/internal/core"
	"github.com/riquemorozine/containers-api/internal/models"
	"github.com/riquemorozine/containers-api/pkg/messagequeue"
)

// QueueName is the queue container events are published to.
const QueueName = "container-events"

// publisher broadcasts domain events as JSON over a MessageQueue.
type publisher struct {
	mq messagequeue.MessageQueue
}

// NewPublisher creates an EventPublisher over the given message queue.
func NewPublisher(mq messagequeue.MessageQueue) core.EventPublisher {
	return &publisher{mq: mq}
}

func (p *publisher) Publish(ctx context.Context, event models.DomainEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %q: %w", event.Name, err)
	}
	if err := p.mq.Publish(QueueName, body); err != nil {
		return fmt.Errorf("failed to publish event %q: %w", event.Name, err)
	}
	return nil
}

// nopPublisher drops events; used when no message queue is configured.
type nopPublisher struct{}

// NewNopPublisher returns an EventPublisher that discards all events.
func NewNopPublisher() core.EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, models.DomainEvent) error { return nil }
