// Package deepgram implements the premium synthesis tier against Deepgram's
// batch speak endpoint. One request in, one complete audio buffer out; the
// caller owns playback.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/omnifolio/assistant-core/core/audio"
	"github.com/omnifolio/assistant-core/core/synthesis"
)

const speakEndpoint = "https://api.deepgram.com/v1/speak"

type Client struct {
	httpClient *http.Client
	apiKey     string

	voice    deepgramVoice
	encoding audio.EncodingInfo
}

type ClientOption func(*Client)

// WithEncodingInfo overrides the audio format requested from the provider.
func WithEncodingInfo(info audio.EncodingInfo) ClientOption {
	return func(c *Client) {
		c.encoding = info
	}
}

func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(voice deepgramVoice, opts ...ClientOption) (*Client, error) {
	if voice == "" {
		voice = defaultVoice
	}
	if !slices.Contains(GetAvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice %q", voice)
	}

	client := &Client{
		voice: voice,
		encoding: audio.EncodingInfo{
			SampleRate: 48000,
			Format:     audio.EncodingLinear16,
		},
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.apiKey == "" {
		apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
		if !ok {
			return nil, fmt.Errorf("deepgram api key not found")
		}
		client.apiKey = apiKey
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		}
	}

	return client, nil
}

// EncodingInfo reports the format of the audio Synthesize returns.
func (c *Client) EncodingInfo() audio.EncodingInfo {
	return c.encoding
}

// Synthesize renders the request into a complete audio buffer. A non-2xx
// provider response is returned as a [synthesis.ProviderError] so callers can
// route it to the fallback tier.
func (c *Client) Synthesize(ctx context.Context, req synthesis.Request) ([]byte, error) {
	voice := c.voice
	if req.Voice != "" {
		if !slices.Contains(GetAvailableVoices(), deepgramVoice(req.Voice)) {
			return nil, fmt.Errorf("invalid voice %q", req.Voice)
		}
		voice = deepgramVoice(req.Voice)
	}

	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: req.Text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speak request: %w", err)
	}

	urlValues := url.Values{}
	urlValues.Set("model", string(voice))
	urlValues.Set("encoding", c.encoding.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(c.encoding.SampleRate))
	urlValues.Set("container", "none")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		speakEndpoint+"?"+urlValues.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create speak request: %w", err)
	}
	httpReq.Header.Set("Authorization", "token "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach deepgram: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &synthesis.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    string(msg),
		}
	}

	speech, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}
	return speech, nil
}
