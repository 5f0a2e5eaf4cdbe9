// Package search resolves a query to candidate URLs. Only the static
// placeholder provider exists; live search is deliberately out of scope.
package search

import (
	"context"
	"log"
)

const DefaultMaxResults = 3

// Searcher returns an ordered list of up to max candidate URLs for a query.
type Searcher interface {
	Search(ctx context.Context, query string, max int) ([]string, error)
}

// Static serves a fixed URL list truncated to the requested count. It is a
// placeholder for a real web-search capability.
type Static struct {
	URLs   []string
	Logger *log.Logger
}

// DefaultURLs are the card-comparison roundups the optimizer consults.
var DefaultURLs = []string{
	"https://www.nerdwallet.com/best-credit-cards",
	"https://www.creditkarma.com/credit-cards/best-credit-cards",
	"https://www.forbes.com/advisor/credit-cards/best-credit-cards/",
}

// NewStatic creates a Static searcher; an empty url list falls back to
// DefaultURLs.
func NewStatic(urls []string, logger *log.Logger) *Static {
	if len(urls) == 0 {
		urls = DefaultURLs
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)
	}
	return &Static{URLs: urls, Logger: logger}
}

// Search implements Searcher. The query only shows up in logs; results are
// the configured list regardless.
func (s *Static) Search(_ context.Context, query string, max int) ([]string, error) {
	if max <= 0 {
		max = DefaultMaxResults
	}
	s.Logger.Printf("[INFO] Running web search for query: %s", query)
	if max > len(s.URLs) {
		max = len(s.URLs)
	}
	out := make([]string, max)
	copy(out, s.URLs[:max])
	return out, nil
}
