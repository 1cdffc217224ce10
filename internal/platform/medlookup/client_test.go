package medlookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func discard() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func TestSearch_ReturnsSuggestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "amox" {
			t.Errorf("expected query 'amox', got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"name":"Amoxicillin"},{"name":"Amoxapine"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discard())
	got := c.Search(context.Background(), "amox")
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	if got[0].Name != "Amoxicillin" {
		t.Errorf("unexpected first suggestion: %q", got[0].Name)
	}
}

func TestSearch_EmptyOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discard())
	if got := c.Search(context.Background(), "amox"); got != nil {
		t.Errorf("expected nil on server error, got %v", got)
	}
}

func TestSearch_EmptyOnUnreachableService(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 100*time.Millisecond, discard())
	if got := c.Search(context.Background(), "amox"); got != nil {
		t.Errorf("expected nil on unreachable service, got %v", got)
	}
}

func TestSearch_BlankQuery(t *testing.T) {
	c := NewClient("http://example.invalid", time.Second, discard())
	if got := c.Search(context.Background(), "   "); got != nil {
		t.Errorf("expected nil for blank query, got %v", got)
	}
}
