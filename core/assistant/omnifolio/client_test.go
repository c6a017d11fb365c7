package omnifolio

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/omnifolio/assistant-core/core/assistant"
)

func TestProcessMessageSendsAttachmentsAndDecodesResponse(t *testing.T) {
	var received struct {
		Message     string                 `json:"message"`
		Attachments []assistant.Attachment `json:"attachments"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != messagePath {
			t.Errorf("expected path %q, got %q", messagePath, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("expected bearer auth header, got %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		json.NewEncoder(w).Encode(assistant.Response{Text: "Your portfolio is up 2% today."})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAPIKey("test-key"))

	response, err := client.ProcessMessage(t.Context(), "how is my portfolio doing",
		assistant.Attachment{Name: "statement.pdf", MIMEType: "application/pdf"},
	)
	if err != nil {
		t.Fatalf("expected message to process, got error: %v", err)
	}

	if response.Text != "Your portfolio is up 2% today." {
		t.Fatalf("expected decoded response text, got %q", response.Text)
	}
	if received.Message != "how is my portfolio doing" {
		t.Fatalf("expected message to be forwarded, got %q", received.Message)
	}
	if len(received.Attachments) != 1 || received.Attachments[0].Name != "statement.pdf" {
		t.Fatalf("expected attachment to be forwarded, got %v", received.Attachments)
	}
}

func TestProcessMessageSurfacesBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	if _, err := client.ProcessMessage(t.Context(), "hello"); err == nil {
		t.Fatal("expected an error on non-OK status, got nil")
	}
}

func TestExecuteActionSendsDeepCopiedPayload(t *testing.T) {
	var received struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != executePath {
			t.Errorf("expected path %q, got %q", executePath, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		json.NewEncoder(w).Encode(assistant.ActionResult{Message: "Transaction recorded."})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	payload := map[string]any{"symbol": "BTC", "amount": 0.5}
	result, err := client.ExecuteAction(t.Context(), assistant.ProposedAction{
		Type:    "add_transaction",
		Payload: payload,
	})
	if err != nil {
		t.Fatalf("expected action to execute, got error: %v", err)
	}

	if result.Message != "Transaction recorded." {
		t.Fatalf("expected result message to decode, got %q", result.Message)
	}
	if received.Type != "add_transaction" {
		t.Fatalf("expected action type to be forwarded, got %q", received.Type)
	}
	if received.Payload["symbol"] != "BTC" {
		t.Fatalf("expected payload to be forwarded, got %v", received.Payload)
	}
}

func TestLoadContextSendsRegisteredSchemas(t *testing.T) {
	var received struct {
		SupportedActions map[string]json.RawMessage `json:"supportedActions"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != loadContextPath {
			t.Errorf("expected path %q, got %q", loadContextPath, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
	}))
	defer server.Close()

	schemas := assistant.NewSchemaRegistry()
	schemas.Register("set_alert", struct {
		Symbol    string  `json:"symbol" jsonschema:"required"`
		Threshold float64 `json:"threshold" jsonschema:"required"`
	}{})

	client := NewClient(WithBaseURL(server.URL), WithSchemaRegistry(schemas))

	if err := client.LoadContext(t.Context()); err != nil {
		t.Fatalf("expected context to load, got error: %v", err)
	}

	if _, ok := received.SupportedActions["set_alert"]; !ok {
		t.Fatalf("expected set_alert schema to be sent, got %v", received.SupportedActions)
	}
}

func TestClearContextFailureIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "session not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	if err := client.ClearContext(t.Context()); err == nil {
		t.Fatal("expected an error on non-OK status, got nil")
	}
}
