package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1beta/models/test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("expected api key in query, got %q", r.URL.Query().Get("key"))
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if got := req.Contents[0].Parts[0].Text; got != "hello" {
			t.Errorf("expected prompt hello, got %q", got)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  Logic: 7  "}]}}]}`))
	}))
	defer srv.Close()

	c := New("secret", srv.URL, "test-model", time.Second)
	got, err := c.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if got != "Logic: 7" {
		t.Fatalf("expected trimmed text, got %q", got)
	}
}

func TestCompleteErrors(t *testing.T) {
	if _, err := New("", "", "", 0).Complete(context.Background(), "x"); err == nil {
		t.Fatal("expected error without api key")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := New("secret", srv.URL, "", time.Second).Complete(context.Background(), "x"); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}
