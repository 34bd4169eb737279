package crawler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeenURLsMarkIfNew(t *testing.T) {
	t.Parallel()

	seen := NewSeenURLs()
	require.True(t, seen.MarkIfNew("https://example.com/a.pdf"))
	require.False(t, seen.MarkIfNew("https://example.com/a.pdf"))
	require.True(t, seen.MarkIfNew("https://example.com/b.pdf"))
	require.False(t, seen.MarkIfNew(""))
}

func TestSeenURLsConcurrentAcceptOnce(t *testing.T) {
	t.Parallel()

	seen := NewSeenURLs()
	const goroutines = 32
	const urls = 100

	var accepted atomic.Int64
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < urls; i++ {
				if seen.MarkIfNew(fmt.Sprintf("https://example.com/%d.pdf", i)) {
					accepted.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	// Every distinct URL is accepted exactly once across all goroutines.
	require.Equal(t, int64(urls), accepted.Load())
}
