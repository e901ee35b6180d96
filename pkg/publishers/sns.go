package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/smnshzh/MarketVisit/internal/logger"
)

type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsPublisher broadcasts store events on an SNS topic.
type snsPublisher struct {
	id       string
	topicARN string
	client   snsClient
	log      logger.Logger
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.AWSCredentials)
	if err != nil {
		return nil, err
	}
	endpoint := cfg.SNS.Endpoint
	return &snsPublisher{
		id:       cfg.ID,
		topicARN: cfg.SNS.TopicARN,
		client: sns.NewFromConfig(awsCfg, func(o *sns.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}),
		log: logger.Ensure(log),
	}, nil
}

func (s *snsPublisher) ID() string   { return s.id }
func (s *snsPublisher) Type() string { return TypeSNS }

func (s *snsPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	attrs := make(map[string]types.MessageAttributeValue)
	for name, value := range evt.attributes() {
		attrs[name] = types.MessageAttributeValue{DataType: awsDataType(name), StringValue: aws.String(value)}
	}
	group, dedupe := fifoFields(s.topicARN, evt)

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn:               aws.String(s.topicARN),
		Message:                aws.String(string(payload)),
		MessageAttributes:      attrs,
		MessageGroupId:         group,
		MessageDeduplicationId: dedupe,
	})
	if err != nil {
		s.log.ErrorObj("sns publish failed", "publisher_sns_error", map[string]any{
			"publisher_id": s.id,
			"event_key":    evt.dedupeKey(),
			"error":        err.Error(),
		})
		return fmt.Errorf("publish %s to sns: %w", evt.dedupeKey(), err)
	}
	s.log.DebugObj("sns accepted store event", "publisher_sns_delivery", map[string]any{
		"publisher_id": s.id,
		"event_key":    evt.dedupeKey(),
		"message_id":   aws.ToString(out.MessageId),
	})
	return nil
}
