// Package memory stores blob content in memory for tests and development.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// BlobStore keeps uploaded objects in a map.
type BlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// New creates an empty BlobStore.
func New() *BlobStore {
	return &BlobStore{objects: make(map[string][]byte)}
}

// Save records the object and returns a mem:// URI.
func (s *BlobStore) Save(_ context.Context, objectName string, data []byte) (string, error) {
	if objectName == "" {
		return "", fmt.Errorf("object name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[objectName] = cp
	return fmt.Sprintf("mem://%s", objectName), nil
}

// Get returns a stored object's bytes.
func (s *BlobStore) Get(objectName string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[objectName]
	return data, ok
}

// Len reports the number of stored objects.
func (s *BlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Names returns the stored object names in no particular order.
func (s *BlobStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for name := range s.objects {
		out = append(out, name)
	}
	return out
}
