package crawler

import "sync"

// SeenURLs tracks document URLs already submitted for download within one
// combination's crawl. Check-and-insert is a single atomic operation so
// concurrent callers can never both accept the same URL.
type SeenURLs struct {
	seen sync.Map
}

// NewSeenURLs creates an empty set. One set is created per combination and
// discarded when the combination finishes.
func NewSeenURLs() *SeenURLs {
	return &SeenURLs{}
}

// MarkIfNew stores the URL if it has not been seen before and returns true;
// it returns false for duplicates and empty URLs.
func (s *SeenURLs) MarkIfNew(url string) bool {
	if url == "" {
		return false
	}
	_, loaded := s.seen.LoadOrStore(url, struct{}{})
	return !loaded
}
