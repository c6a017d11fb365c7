// Package omnifolio implements the assistant backend contract against the
// OmniFolio assistant HTTP API.
package omnifolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/jinzhu/copier"
	"github.com/omnifolio/assistant-core/core/assistant"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL = "https://api.omnifolio.app/v1"

	messagePath      = "/assistant/message"
	executePath      = "/assistant/actions/execute"
	loadContextPath  = "/assistant/context/load"
	clearContextPath = "/assistant/context/clear"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	schemas *assistant.SchemaRegistry
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) { c.apiKey = apiKey }
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithSchemaRegistry declares the action types this client is willing to
// execute. The registry is sent to the backend on LoadContext.
func WithSchemaRegistry(schemas *assistant.SchemaRegistry) ClientOption {
	return func(c *Client) { c.schemas = schemas }
}

func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		baseURL: defaultBaseURL,
		apiKey:  os.Getenv("OMNIFOLIO_API_KEY"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

func (c *Client) ProcessMessage(ctx context.Context, text string, attachments ...assistant.Attachment) (*assistant.Response, error) {
	reqBody := struct {
		Message     string                 `json:"message"`
		Attachments []assistant.Attachment `json:"attachments,omitempty"`
	}{Message: text, Attachments: attachments}

	var response assistant.Response
	if err := c.post(ctx, messagePath, reqBody, &response); err != nil {
		return nil, fmt.Errorf("failed to process message: %w", err)
	}

	return &response, nil
}

func (c *Client) ExecuteAction(ctx context.Context, action assistant.ProposedAction) (*assistant.ActionResult, error) {
	// The payload travels as-is, but through a deep copy so a retry can never
	// observe mutations the backend round-trip made to nested values.
	reqBody := struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}{Type: action.Type}
	if err := copier.CopyWithOption(&reqBody.Payload, action.Payload, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to copy action payload: %w", err)
	}

	var result assistant.ActionResult
	if err := c.post(ctx, executePath, reqBody, &result); err != nil {
		return nil, fmt.Errorf("failed to execute action: %w", err)
	}

	return &result, nil
}

func (c *Client) LoadContext(ctx context.Context) error {
	reqBody := struct {
		SupportedActions map[string]*jsonschema.Schema `json:"supportedActions,omitempty"`
	}{SupportedActions: c.schemas.Schemas()}

	if err := c.post(ctx, loadContextPath, reqBody, nil); err != nil {
		return fmt.Errorf("failed to load assistant context: %w", err)
	}

	return nil
}

func (c *Client) ClearContext(ctx context.Context) error {
	if err := c.post(ctx, clearContextPath, struct{}{}, nil); err != nil {
		return fmt.Errorf("failed to clear assistant context: %w", err)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, reqBody any, out any) error {
	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return fmt.Errorf("error creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("non-OK HTTP status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error unmarshalling JSON: %w", err)
	}

	return nil
}
