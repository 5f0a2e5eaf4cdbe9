package webfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const samplePage = `<!DOCTYPE html>
<html><head><title>Best Credit Cards</title>
<script>var tracking = "ignore me";</script>
<style>.hero { color: red; }</style>
</head><body>
<article>
<h1>Best Credit Cards of the Year</h1>
<p>Our editors compared annual fees, cashback rates and signup bonuses
across dozens of cards to build this ranking.</p>
<p>Grocery-focused cards top the list for households that spend heavily
on food, with effective rates up to six percent.</p>
</article>
</body></html>`

func TestFetchExtractsVisibleText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	res := NewHTTPFetcher(0).Fetch(context.Background(), srv.URL)
	if res.Failed() {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if !strings.Contains(res.Text, "cashback rates") {
		t.Fatalf("expected visible text in result, got %q", res.Text)
	}
	if strings.Contains(res.Text, "ignore me") {
		t.Fatalf("script content leaked into extracted text: %q", res.Text)
	}
}

func TestFetchFailureIsLocalNotPropagated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	res := NewHTTPFetcher(time.Second).Fetch(context.Background(), srv.URL)
	if !res.Failed() {
		t.Fatal("expected failed result for unreachable host")
	}
	if !strings.HasPrefix(res.String(), "[ERROR] Failed to load content from ") {
		t.Fatalf("unexpected failure rendering: %q", res.String())
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	res := NewHTTPFetcher(50 * time.Millisecond).Fetch(context.Background(), srv.URL)
	if !res.Failed() {
		t.Fatal("expected failed result on timeout")
	}
}
