package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imrishuroy/go-catalog/internal/aws"
)

// Publisher emits catalog change events.
type Publisher interface {
	Publish(ctx context.Context, ev ItemEvent) error
}

// SQSPublisher sends events as JSON messages to an SQS queue.
type SQSPublisher struct {
	pub *aws.Publisher
}

// NewSQSPublisher returns a publisher bound to queueURL.
func NewSQSPublisher(client aws.SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{pub: aws.NewPublisher(client, queueURL)}
}

func (p *SQSPublisher) Publish(ctx context.Context, ev ItemEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	attrs := map[string]string{
		"event_type":     ev.Type,
		"item_id":        ev.ItemID,
		"correlation_id": ev.CorrelationID,
	}
	if err := p.pub.SendMessage(ctx, string(body), attrs); err != nil {
		return fmt.Errorf("publish %s for item=%s: %w", ev.Type, ev.ItemID, err)
	}
	return nil
}

// NopPublisher drops every event. Used when no queue is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ItemEvent) error { return nil }
