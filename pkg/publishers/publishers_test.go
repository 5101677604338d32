package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadRegistryAllPublisherTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: queue
    type: SQS
    sqs:
      uri: " https://sqs.eu-south-1.amazonaws.com/1/articles "
      region: eu-south-1
      credentials:
        access_key_id: AKIA
        secret_access_key: secret
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-south-1:1:articles
      region: eu-south-1
  - id: stream
    type: gcp_pubsub
    gcp_pubsub:
      project_id: archive
      topic: articles
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 publishers, got %d", len(all))
	}
	if all[0].Type != TypeSQS || all[0].SQS.QueueURL != "https://sqs.eu-south-1.amazonaws.com/1/articles" {
		t.Fatalf("sqs entry not sanitized: %+v", all[0].SQS)
	}
	if all[0].SQS.Credentials.AccessKeyID != "AKIA" {
		t.Fatalf("credentials not loaded")
	}
	if cfg, ok := reg.ByID("stream"); !ok || cfg.GCPPubSub.Topic != "articles" {
		t.Fatalf("ByID(stream) = %+v, %v", cfg, ok)
	}
}

func TestValidatePublisherConfigRejectsIncompleteSNS(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "t",
		Type: TypeSNS,
		SNS:  &SNSPublisherConfig{TopicARN: "arn"},
	})
	if err == nil {
		t.Fatalf("expected validation error for missing region")
	}
}
