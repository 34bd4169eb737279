package notify

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
)

// PubSubProvider implements Provider on Google Cloud Pub/Sub.
type PubSubProvider struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	logger *zap.Logger
}

// NewPubSubProvider creates a Pub/Sub client and verifies the topic exists so
// a misconfigured notifier fails at startup. Authentication uses Application
// Default Credentials.
func NewPubSubProvider(ctx context.Context, projectID, topicID string, logger *zap.Logger) (*PubSubProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("failed to close pubsub client after topic check failure", zap.Error(cerr))
		}
		return nil, fmt.Errorf("failed to check pubsub topic %q: %w", topicID, err)
	}
	if !exists {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("failed to close pubsub client after topic check failure", zap.Error(cerr))
		}
		return nil, fmt.Errorf("pubsub topic %q does not exist in project %q", topicID, projectID)
	}

	return &PubSubProvider{
		client: client,
		topic:  topic,
		logger: logger,
	}, nil
}

// Publish sends the object URI to the topic. The send is asynchronous; the
// Pub/Sub client batches and retries in the background.
func (p *PubSubProvider) Publish(ctx context.Context, objectURI string) error {
	result := p.topic.Publish(ctx, &pubsub.Message{Data: []byte(objectURI)})
	// Fire and forget: a lost notification only delays downstream processing.
	_ = result
	return nil
}

// Close stops the topic's publisher and closes the client.
func (p *PubSubProvider) Close() error {
	p.topic.Stop()
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("failed to close pubsub client: %w", err)
	}
	return nil
}
