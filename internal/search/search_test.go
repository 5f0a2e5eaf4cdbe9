package search

import (
	"context"
	"io"
	"log"
	"testing"
)

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func TestStaticTruncatesToMax(t *testing.T) {
	s := NewStatic(nil, quiet())
	urls, err := s.Search(context.Background(), "best cashback cards", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(urls))
	}
	if urls[0] != DefaultURLs[0] || urls[1] != DefaultURLs[1] {
		t.Fatalf("expected ordered prefix of DefaultURLs, got %v", urls)
	}
}

func TestStaticDefaultMax(t *testing.T) {
	s := NewStatic(nil, quiet())
	urls, err := s.Search(context.Background(), "anything", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(urls) != DefaultMaxResults {
		t.Fatalf("expected %d urls, got %d", DefaultMaxResults, len(urls))
	}
}

func TestStaticMaxBeyondListLength(t *testing.T) {
	s := NewStatic([]string{"https://example.com/cards"}, quiet())
	urls, err := s.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("expected 1 url, got %d", len(urls))
	}
}
