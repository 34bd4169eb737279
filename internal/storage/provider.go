// Package storage defines the interface for the blob sink the crawler uploads
// documents to. The abstraction keeps the pipeline independent of a specific
// remote store (Google Cloud Storage in production, in-memory in tests).
package storage

import (
	"context"
	"fmt"
)

// Provider is the blob sink contract: upload bytes under a name, get back the
// identifier of the stored object.
type Provider interface {
	// Save uploads data to the given object path/key and returns the stored
	// object's URI.
	Save(ctx context.Context, objectName string, data []byte) (string, error)
}

// NoOpProvider discards everything. It is useful for dry runs where documents
// are fetched but not persisted.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and reports a synthetic URI.
func (NoOpProvider) Save(_ context.Context, objectName string, _ []byte) (string, error) {
	return fmt.Sprintf("noop://%s", objectName), nil
}
