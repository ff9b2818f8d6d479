package ghclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExecuteReturnsDataPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}

		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Variables["owner"] != "acme" {
			t.Errorf("variables not forwarded: %v", req.Variables)
		}

		_, _ = w.Write([]byte(`{"data": {"repository": {"name": "widgets"}}}`))
	}))
	defer srv.Close()

	c := NewGraphQLClientForEndpoint(srv.URL, "test-token")
	data, err := c.Execute(context.Background(), "query { repository }", map[string]any{"owner": "acme"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var payload struct {
		Repository struct {
			Name string `json:"name"`
		} `json:"repository"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}
	if payload.Repository.Name != "widgets" {
		t.Errorf("payload = %s", data)
	}
}

func TestExecuteGraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null, "errors": [{"message": "Could not resolve to a Repository", "type": "NOT_FOUND"}]}`))
	}))
	defer srv.Close()

	c := NewGraphQLClientForEndpoint(srv.URL, "test-token")
	data, err := c.Execute(context.Background(), "query { repository }", nil)
	if err == nil {
		t.Fatal("expected error for GraphQL errors array")
	}
	if data != nil {
		t.Errorf("expected nil payload on error, got %s", data)
	}
}

func TestExecuteNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewGraphQLClientForEndpoint(srv.URL, "test-token")
	if _, err := c.Execute(context.Background(), "query { viewer { login } }", nil); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestNewGraphQLClientRequiresToken(t *testing.T) {
	if _, err := NewGraphQLClient(""); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestViewerLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"viewer": {"login": "alice"}}}`))
	}))
	defer srv.Close()

	c := NewGraphQLClientForEndpoint(srv.URL, "test-token")
	login, err := c.ViewerLogin(context.Background())
	if err != nil {
		t.Fatalf("ViewerLogin() error = %v", err)
	}
	if login != "alice" {
		t.Errorf("ViewerLogin() = %q, want alice", login)
	}
}
