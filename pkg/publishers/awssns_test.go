package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
	"github.com/samvad-hq/samvad-archive-scraper/internal/logger"
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

func TestSNSPublisherPublishSuccess(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{
		id:       "topic",
		typ:      TypeSNS,
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      logger.NopLogger{},
	}

	err := pub.Publish(context.Background(), NewEvent("run-1", "larepubblica", "LaRepubblica", domain.Article{Title: "Titolo"}))
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::topic" {
		t.Fatalf("TopicArn = %s", got)
	}
	attr, ok := client.input.MessageAttributes["source_id"]
	if !ok || aws.ToString(attr.StringValue) != "larepubblica" {
		t.Fatalf("source_id attribute missing or wrong: %#v", attr)
	}
	if !strings.Contains(aws.ToString(client.input.Message), `"title":"Titolo"`) {
		t.Fatalf("Message missing article: %s", aws.ToString(client.input.Message))
	}
}

func TestSNSPublisherPublishError(t *testing.T) {
	client := &fakeSNSClient{err: errors.New("boom")}
	pub := &snsPublisher{
		id:       "topic",
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      logger.NopLogger{},
	}

	if err := pub.Publish(context.Background(), Event{SourceID: "larepubblica"}); err == nil {
		t.Fatalf("expected error from Publish")
	}
}
