package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
)

// GCSClientFactory abstracts GCS client construction so tests can inject a
// client pointed at a fake server.
type GCSClientFactory interface {
	NewClient(ctx context.Context) (*storage.Client, error)
}

// DefaultGCSClientFactory builds a real client using Application Default
// Credentials.
type DefaultGCSClientFactory struct{}

// NewClient creates a GCS client.
func (DefaultGCSClientFactory) NewClient(ctx context.Context) (*storage.Client, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("new gcs client: %w", err)
	}
	return client, nil
}

// GCSProvider implements Provider backed by a Google Cloud Storage bucket.
type GCSProvider struct {
	Client     *storage.Client
	BucketName string
	Logger     *zap.Logger
}

// NewGCSProvider initializes the client and verifies bucket access so a
// misconfigured sink fails at startup rather than mid-crawl.
func NewGCSProvider(ctx context.Context, bucketName string, factory GCSClientFactory, logger *zap.Logger) (*GCSProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := factory.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	if _, err := client.Bucket(bucketName).Attrs(ctx); err != nil {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("failed to close GCS client after bucket check failure", zap.Error(cerr))
		}
		return nil, fmt.Errorf("failed to get GCS bucket %q attributes: %w", bucketName, err)
	}

	return &GCSProvider{
		Client:     client,
		BucketName: bucketName,
		Logger:     logger,
	}, nil
}

// Save uploads the data to the bucket and returns the gs:// URI.
func (g *GCSProvider) Save(ctx context.Context, objectName string, data []byte) (string, error) {
	wc := g.Client.Bucket(g.BucketName).Object(objectName).NewWriter(ctx)

	if _, err := wc.Write(data); err != nil {
		if cerr := wc.Close(); cerr != nil {
			g.Logger.Warn("failed to close GCS writer after write failure", zap.Error(cerr))
		}
		return "", fmt.Errorf("failed to write GCS object %s: %w", objectName, err)
	}

	// Close finalizes the upload; errors here mean the object was not stored.
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer for object %s: %w", objectName, err)
	}

	return fmt.Sprintf("gs://%s/%s", g.BucketName, objectName), nil
}
