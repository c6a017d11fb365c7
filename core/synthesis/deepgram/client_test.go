package deepgram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/omnifolio/assistant-core/core/synthesis"
)

func TestSynthesizeReturnsAudio(t *testing.T) {
	audioBytes := []byte{0x01, 0x02, 0x03, 0x04}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "token test-key" {
			t.Errorf("expected token auth header, got %q", got)
		}
		if got := r.URL.Query().Get("model"); got != string(VoiceAuraAsteria) {
			t.Errorf("expected model %s, got %q", VoiceAuraAsteria, got)
		}
		_, _ = w.Write(audioBytes)
	}))
	defer server.Close()

	client, err := NewClient(VoiceAuraAsteria, WithAPIKey("test-key"),
		WithHTTPClient(rerouted(server)))
	if err != nil {
		t.Fatalf("expected client, got error %v", err)
	}

	speech, err := client.Synthesize(context.Background(), synthesis.Request{Text: "hello"})
	if err != nil {
		t.Fatalf("expected audio, got error %v", err)
	}
	if len(speech) != len(audioBytes) {
		t.Fatalf("expected %d audio bytes, got %d", len(audioBytes), len(speech))
	}
}

func TestSynthesizeProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "payment required", http.StatusPaymentRequired)
	}))
	defer server.Close()

	client, err := NewClient(VoiceAuraAsteria, WithAPIKey("test-key"),
		WithHTTPClient(rerouted(server)))
	if err != nil {
		t.Fatalf("expected client, got error %v", err)
	}

	_, err = client.Synthesize(context.Background(), synthesis.Request{Text: "hello"})
	var providerErr *synthesis.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if providerErr.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("expected status %d, got %d", http.StatusPaymentRequired, providerErr.StatusCode)
	}
}

func TestNewClientRejectsUnknownVoice(t *testing.T) {
	if _, err := NewClient("not-a-voice", WithAPIKey("test-key")); err == nil {
		t.Fatal("expected error for unknown voice")
	}
}

// rerouted returns a client that sends every request to the test server
// regardless of the requested host.
func rerouted(server *httptest.Server) *http.Client {
	return &http.Client{
		Transport: reroutingTransport{target: server.URL, base: server.Client().Transport},
	}
}

type reroutingTransport struct {
	target string
	base   http.RoundTripper
}

func (t reroutingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	redirected, err := http.NewRequestWithContext(req.Context(), req.Method,
		t.target+"?"+req.URL.RawQuery, req.Body)
	if err != nil {
		return nil, err
	}
	redirected.Header = req.Header
	return t.base.RoundTrip(redirected)
}
