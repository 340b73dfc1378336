package cerebras

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/trademcp/trademcp/internal/util"
)

func testClient(baseURL string) *Client {
	return NewClient(&util.CerebrasConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "llama3.1-70b",
	})
}

func TestComplete(t *testing.T) {
	var gotAuth string
	var gotReq CompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"The market looks calm."}}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	out, err := c.Complete(context.Background(), CompletionRequest{
		Messages:    []Message{{Role: "user", Content: "How is the market?"}},
		MaxTokens:   100,
		Temperature: 0.5,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "The market looks calm." {
		t.Errorf("completion = %q", out)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	// The client fills in its configured model when the request leaves it blank.
	if gotReq.Model != "llama3.1-70b" {
		t.Errorf("model = %q, want llama3.1-70b", gotReq.Model)
	}
	if gotReq.MaxTokens != 100 {
		t.Errorf("max tokens = %d", gotReq.MaxTokens)
	}
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"authentication_error"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error %q does not carry the upstream message", err)
	}
}

func TestCompleteNoAPIKey(t *testing.T) {
	c := NewClient(&util.CerebrasConfig{BaseURL: "http://unused", Model: "llama3.1-70b"})

	_, err := c.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("error = %v, want ErrNoAPIKey", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if _, err := c.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	}); err == nil {
		t.Fatal("expected an error for an empty choice list")
	}
}
