package imageurl

import (
	"context"
	"sync"
)

// StubChecker is a deterministic Checker for tests.
// It reports true only for URLs in its known set and records every probe,
// so it grows without bound; use NotFound outside tests.
type StubChecker struct {
	mu    sync.Mutex
	known map[string]bool
	Calls []string
}

// NewStubChecker creates a StubChecker that finds exactly the given URLs.
func NewStubChecker(found ...string) *StubChecker {
	known := make(map[string]bool, len(found))
	for _, u := range found {
		known[u] = true
	}
	return &StubChecker{known: known}
}

func (s *StubChecker) Exists(_ context.Context, url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, url)
	return s.known[url]
}

// CallCount returns the number of probes made.
func (s *StubChecker) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// Probed returns a copy of the probed URLs in order.
func (s *StubChecker) Probed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Calls...)
}
