package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/smnshzh/MarketVisit/internal/domain"
	"github.com/smnshzh/MarketVisit/internal/logger"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSPublisherSendsStoreEvent(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://sqs.us-east-1.amazonaws.com/000000000000/stores",
		client:   client,
		log:      logger.NopLogger{},
	}

	store := domain.Store{ID: 42, Name: "Bakery", CategorySlug: "bakery"}
	if err := pub.Publish(context.Background(), NewEvent("vanak", "Vanak", store)); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	attrs := client.input.MessageAttributes
	if a := attrs["area_id"]; aws.ToString(a.StringValue) != "vanak" || aws.ToString(a.DataType) != "String" {
		t.Fatalf("area_id attribute wrong: %#v", a)
	}
	if a := attrs["store_id"]; aws.ToString(a.StringValue) != "42" || aws.ToString(a.DataType) != "Number" {
		t.Fatalf("store_id attribute wrong: %#v", a)
	}
	if a := attrs["event_key"]; aws.ToString(a.StringValue) != "vanak/42" {
		t.Fatalf("event_key attribute wrong: %#v", a)
	}
	if a := attrs["category"]; aws.ToString(a.StringValue) != "bakery" {
		t.Fatalf("category attribute wrong: %#v", a)
	}
	if client.input.MessageGroupId != nil || client.input.MessageDeduplicationId != nil {
		t.Fatalf("standard queue must not carry fifo fields")
	}
	body := aws.ToString(client.input.MessageBody)
	for _, want := range []string{`"key":"vanak/42"`, `"type":"store.discovered"`, `"seen_at_local"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("MessageBody missing %s: %s", want, body)
		}
	}
}

func TestSQSPublisherFIFOQueueDedupesOnEventKey(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		queueURL: "https://sqs.us-east-1.amazonaws.com/000000000000/stores.fifo",
		client:   client,
		log:      logger.NopLogger{},
	}

	evt := NewEvent("tajrish", "Tajrish", domain.Store{ID: 9})
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got := aws.ToString(client.input.MessageDeduplicationId); got != "tajrish/9" {
		t.Fatalf("MessageDeduplicationId = %q", got)
	}
	if got := aws.ToString(client.input.MessageGroupId); got != "tajrish" {
		t.Fatalf("MessageGroupId = %q", got)
	}
}

func TestSQSPublisherSendError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("boom")}
	pub := &sqsPublisher{
		queueURL: "https://sqs.us-east-1.amazonaws.com/000000000000/stores",
		client:   client,
		log:      logger.NopLogger{},
	}

	err := pub.Publish(context.Background(), Event{AreaID: "a", Store: domain.Store{ID: 1}})
	if err == nil || !strings.Contains(err.Error(), "a/1") {
		t.Fatalf("expected error naming the event key, got %v", err)
	}
}
