package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/imrishuroy/go-catalog/internal/aws"
	"github.com/imrishuroy/go-catalog/internal/events"
)

var ErrUnknownEvent = errors.New("unknown event type")

// Processor turns catalog change events into CloudWatch metric data.
type Processor struct {
	cloudwatch aws.CloudWatchAPI
	namespace  string
	logger     *log.Logger
	nowFunc    func() time.Time
}

// NewProcessor creates a new worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, namespace string, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.Default()
	}
	return &Processor{
		cloudwatch: clients.CloudWatch,
		namespace:  namespace,
		logger:     logger,
		nowFunc:    time.Now,
	}
}

// Handle processes an SQS batch. Messages that fail are reported back so only
// they are retried; the rest of the batch is deleted from the queue.
func (p *Processor) Handle(ctx context.Context, ev lambdaevents.SQSEvent) (lambdaevents.SQSEventResponse, error) {
	var resp lambdaevents.SQSEventResponse
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.logger.Printf("[worker] message=%s failed: %v", rec.MessageId, err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, lambdaevents.SQSBatchItemFailure{
				ItemIdentifier: rec.MessageId,
			})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, rec lambdaevents.SQSMessage) error {
	var msg events.ItemEvent
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if !events.Known(msg.Type) {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, msg.Type)
	}

	p.logger.Printf("[worker] received type=%s item=%s corr=%s", msg.Type, msg.ItemID, msg.CorrelationID)

	ts := msg.OccurredAt
	if ts.IsZero() {
		ts = p.nowFunc().UTC()
	}
	_, err := p.cloudwatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(p.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String(metricName(msg.Type)),
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(1),
				Timestamp:  sdkaws.Time(ts),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
