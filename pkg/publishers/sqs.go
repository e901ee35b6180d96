package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/smnshzh/MarketVisit/internal/logger"
)

type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsPublisher enqueues store events on an SQS queue.
type sqsPublisher struct {
	id       string
	queueURL string
	client   sqsClient
	log      logger.Logger
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.AWSCredentials)
	if err != nil {
		return nil, err
	}
	endpoint := cfg.SQS.Endpoint
	return &sqsPublisher{
		id:       cfg.ID,
		queueURL: cfg.SQS.QueueURL,
		client: sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}),
		log: logger.Ensure(log),
	}, nil
}

func (s *sqsPublisher) ID() string   { return s.id }
func (s *sqsPublisher) Type() string { return TypeSQS }

func (s *sqsPublisher) Publish(ctx context.Context, evt Event) error {
	input, err := s.sendInput(evt)
	if err != nil {
		return err
	}
	out, err := s.client.SendMessage(ctx, input)
	if err != nil {
		s.log.ErrorObj("sqs send failed", "publisher_sqs_error", map[string]any{
			"publisher_id": s.id,
			"event_key":    evt.dedupeKey(),
			"error":        err.Error(),
		})
		return fmt.Errorf("send %s to sqs: %w", evt.dedupeKey(), err)
	}
	s.log.DebugObj("sqs accepted store event", "publisher_sqs_delivery", map[string]any{
		"publisher_id": s.id,
		"event_key":    evt.dedupeKey(),
		"message_id":   aws.ToString(out.MessageId),
	})
	return nil
}

func (s *sqsPublisher) sendInput(evt Event) (*sqs.SendMessageInput, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	attrs := make(map[string]types.MessageAttributeValue)
	for name, value := range evt.attributes() {
		attrs[name] = types.MessageAttributeValue{DataType: awsDataType(name), StringValue: aws.String(value)}
	}
	group, dedupe := fifoFields(s.queueURL, evt)
	return &sqs.SendMessageInput{
		QueueUrl:               aws.String(s.queueURL),
		MessageBody:            aws.String(string(payload)),
		MessageAttributes:      attrs,
		MessageGroupId:         group,
		MessageDeduplicationId: dedupe,
	}, nil
}
