package searxng

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iWorld-y/serp_intel/pkg/serp"
)

func newFakeSearXNG(t *testing.T, results []SearchResult) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q, want json", got)
		}
		json.NewEncoder(w).Encode(SearchResponse{
			Query:   r.URL.Query().Get("q"),
			Results: results,
		})
	}))
}

func TestResolveDeepMode(t *testing.T) {
	srv := newFakeSearXNG(t, []SearchResult{
		{Title: "first", URL: "https://a.com/guide"},
		{Title: "second", URL: "https://b.com/review"},
		{Title: "third", URL: "https://c.com/faq"},
	})
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	resp, err := client.Resolve(context.Background(), &serp.Request{Topic: "widgets", Mode: serp.ModeDeep, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}

	if len(resp.Organic) != 2 {
		t.Fatalf("organic = %d, want 2 (limit)", len(resp.Organic))
	}
	// 位次从 1 开始，按返回顺序编号
	if resp.Organic[0].Position != 1 || resp.Organic[1].Position != 2 {
		t.Errorf("positions = [%d, %d]", resp.Organic[0].Position, resp.Organic[1].Position)
	}
	if resp.Organic[0].URL != "https://a.com/guide" || resp.Organic[0].Title != "first" {
		t.Errorf("first result = %+v", resp.Organic[0])
	}
}

func TestResolveFastMode(t *testing.T) {
	srv := newFakeSearXNG(t, []SearchResult{
		{Title: "first", URL: "https://a.com/guide"},
		{Title: "second", URL: "https://b.com/review"},
	})
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	resp, err := client.Resolve(context.Background(), &serp.Request{Topic: "widgets", Mode: serp.ModeFast})
	if err != nil {
		t.Fatal(err)
	}

	if len(resp.Organic) != 0 {
		t.Errorf("fast mode should not carry organic results, got %d", len(resp.Organic))
	}
	if len(resp.EstimatedDomains) != 2 || resp.EstimatedDomains[0] != "a.com" {
		t.Errorf("EstimatedDomains = %v", resp.EstimatedDomains)
	}
}

func TestResolveAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	if _, err := client.Resolve(context.Background(), &serp.Request{Topic: "widgets", Mode: serp.ModeDeep}); err == nil {
		t.Error("expected error for non-200 status")
	}
}
