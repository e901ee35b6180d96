package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/smnshzh/MarketVisit/internal/domain"
	"github.com/smnshzh/MarketVisit/internal/logger"
)

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSNSPublisherSendSuccess(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      logger.NopLogger{},
	}

	err := pub.Publish(context.Background(), NewEvent("vanak", "Vanak", domain.Store{ID: 7}))
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::topic" {
		t.Fatalf("TopicArn = %s", got)
	}
	attr, ok := client.input.MessageAttributes["area_id"]
	if !ok || aws.ToString(attr.StringValue) != "vanak" {
		t.Fatalf("area_id attribute missing or wrong: %#v", attr)
	}
	if attr.DataType == nil || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("DataType should be String, got %#v", attr.DataType)
	}
	if key := client.input.MessageAttributes["event_key"]; aws.ToString(key.StringValue) != "vanak/7" {
		t.Fatalf("event_key attribute wrong: %#v", key)
	}
	if msg := aws.ToString(client.input.Message); !strings.Contains(msg, `"id":7`) {
		t.Fatalf("Message missing store: %s", msg)
	}
	if client.input.MessageDeduplicationId != nil {
		t.Fatalf("standard topic must not carry a dedupe id")
	}
}

func TestSNSPublisherFIFOTopicDedupesOnEventKey(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{
		topicARN: "arn:aws:sns:us-east-1:000000000000:stores.fifo",
		client:   client,
		log:      logger.NopLogger{},
	}

	if err := pub.Publish(context.Background(), NewEvent("vanak", "Vanak", domain.Store{ID: 7})); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got := aws.ToString(client.input.MessageDeduplicationId); got != "vanak/7" {
		t.Fatalf("MessageDeduplicationId = %q", got)
	}
	if got := aws.ToString(client.input.MessageGroupId); got != "vanak" {
		t.Fatalf("MessageGroupId = %q", got)
	}
}

func TestSNSPublisherSendError(t *testing.T) {
	client := &fakeSNSClient{err: errors.New("boom")}
	pub := &snsPublisher{
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      logger.NopLogger{},
	}

	if err := pub.Publish(context.Background(), Event{AreaID: "a"}); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestNewSNSPublisherWithStaticCredentials(t *testing.T) {
	pub, err := newSNSPublisher(context.Background(), PublisherConfig{
		ID:   "topic",
		Type: TypeSNS,
		SNS: &SNSPublisherConfig{
			TopicARN:       "arn:aws:sns:us-east-1:000000000000:stores",
			Region:         "us-east-1",
			Endpoint:       "http://localhost:4566",
			AWSCredentials: AWSCredentials{AccessKeyID: "test", SecretAccessKey: "test"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("newSNSPublisher: %v", err)
	}
	if pub.Type() != TypeSNS || pub.ID() != "topic" {
		t.Fatalf("unexpected publisher %s/%s", pub.Type(), pub.ID())
	}
}
