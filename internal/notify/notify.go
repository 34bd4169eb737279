// Package notify publishes upload notifications so downstream consumers can
// react to newly stored documents. It is optional; the default provider is a
// no-op.
package notify

import "context"

// Provider is the notification contract: publish an uploaded object's URI.
type Provider interface {
	Publish(ctx context.Context, objectURI string) error
	Close() error
}

// NoOpProvider discards notifications.
type NoOpProvider struct{}

// Publish does nothing.
func (NoOpProvider) Publish(context.Context, string) error { return nil }

// Close does nothing.
func (NoOpProvider) Close() error { return nil }
