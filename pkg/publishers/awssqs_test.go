package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
	"github.com/samvad-hq/samvad-archive-scraper/internal/logger"
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

func TestSQSPublisherPublishSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		id:       "queue",
		typ:      TypeSQS,
		queueURL: "https://example.com/queue",
		client:   client,
		log:      logger.NopLogger{},
	}

	err := pub.Publish(context.Background(), NewEvent("run-1", "larepubblica", "LaRepubblica", domain.Article{URL: "https://www.repubblica.it/a"}))
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["source_id"]
	if !ok || aws.ToString(attr.StringValue) != "larepubblica" {
		t.Fatalf("source_id attribute missing or wrong: %#v", attr)
	}
	if aws.ToString(attr.DataType) != "String" {
		t.Fatalf("DataType should be String, got %#v", attr.DataType)
	}
	if run := client.input.MessageAttributes["run_id"]; aws.ToString(run.StringValue) != "run-1" {
		t.Fatalf("run_id attribute missing: %#v", run)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"source_name":"LaRepubblica"`) {
		t.Fatalf("MessageBody missing source_name: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSPublisherEmptyAttributesAreFilled(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "queue", client: client, log: logger.NopLogger{}}

	if err := pub.Publish(context.Background(), Event{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if v := aws.ToString(client.input.MessageAttributes["run_id"].StringValue); v == "" {
		t.Fatalf("empty attribute value would be rejected by SQS")
	}
}

func TestSQSPublisherPublishError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("boom")}
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   client,
		log:      logger.NopLogger{},
	}

	if err := pub.Publish(context.Background(), Event{SourceID: "larepubblica"}); err == nil {
		t.Fatalf("expected error from Publish")
	}
}
