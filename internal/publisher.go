package internal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// PutEventsAPI is the part of the EventBridge client the publisher needs.
type PutEventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// EventPublisher sends one event and reports how the bus acknowledged it.
type EventPublisher interface {
	Publish(ctx context.Context, rec EventRecord) (PublishOutcome, error)
}

// Publisher puts events on a single bus under a single source, one request per event.
type Publisher struct {
	client  PutEventsAPI
	busName string
	source  string
}

// NewPublisher wraps an EventBridge client.
func NewPublisher(client PutEventsAPI) *Publisher {
	return &Publisher{
		client:  client,
		busName: EventBusName,
		source:  EventSource,
	}
}

// NewEventBridgeClient builds a client bound to the session. Retries are
// disabled: a failed put is reported, not repeated.
func NewEventBridgeClient(s *AWSSession, optFns ...func(*eventbridge.Options)) *eventbridge.Client {
	cfg := s.Config()
	cfg.Retryer = func() aws.Retryer { return aws.NopRetryer{} }
	return eventbridge.NewFromConfig(cfg, optFns...)
}

// Publish sends rec. A non-success acknowledgment is a normal outcome; only
// transport failures are returned as errors.
func (p *Publisher) Publish(ctx context.Context, rec EventRecord) (PublishOutcome, error) {
	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(p.source),
				DetailType:   aws.String(rec.DetailType),
				Detail:       aws.String(rec.Payload()),
			},
		},
	})
	if err != nil {
		return PublishOutcome{}, fmt.Errorf("%w: put event '%s': %w", ErrTransport, rec.Path, err)
	}

	outcome := PublishOutcome{
		Record:     rec,
		StatusCode: statusCode(out),
	}
	if len(out.Entries) > 0 {
		entry := out.Entries[0]
		outcome.EventID = aws.ToString(entry.EventId)
		outcome.ErrorCode = aws.ToString(entry.ErrorCode)
		outcome.ErrorMessage = aws.ToString(entry.ErrorMessage)
	}
	// Failed entries carry an error code; a 200 alone is not enough.
	outcome.Acknowledged = outcome.StatusCode == http.StatusOK && outcome.ErrorCode == ""

	return outcome, nil
}

func statusCode(out *eventbridge.PutEventsOutput) int {
	raw, ok := awsmiddleware.GetRawResponse(out.ResultMetadata).(*smithyhttp.Response)
	if !ok || raw == nil || raw.Response == nil {
		return 0
	}
	return raw.StatusCode
}
