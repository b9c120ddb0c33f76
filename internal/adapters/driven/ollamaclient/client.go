// Package ollamaclient is the HTTP client shared by the Ollama embedding
// and LLM adapters.
package ollamaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DefaultBaseURL is where a local Ollama listens.
const DefaultBaseURL = "http://localhost:11434"

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 64 << 10

// Client talks to one Ollama server.
type Client struct {
	http    *http.Client
	baseURL string

	// unavailable is wrapped around transport failures, so callers see
	// domain.ErrEmbeddingUnavailable or domain.ErrLLMUnavailable.
	unavailable error
}

// New creates a client. An empty baseURL means DefaultBaseURL.
func New(baseURL string, timeout time.Duration, unavailable error) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:        &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		unavailable: unavailable,
	}
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post sends body as JSON to path and decodes the reply into out.
// Non-200 replies become *domain.ProviderError.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// RequireModel checks the server is reachable and model has been pulled.
// A missing model is reported as a 404 so it classifies like a cloud
// provider's unknown model.
func (c *Client) RequireModel(ctx context.Context, model string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	var tags tagsResponse
	if err := c.do(req, &tags); err != nil {
		return err
	}

	want := withTag(model)
	for _, m := range tags.Models {
		if withTag(m.Name) == want {
			return nil
		}
	}
	return &domain.ProviderError{
		Provider:   string(domain.AIProviderOllama),
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("model %q is not pulled, run 'ollama pull %s'", model, model),
	}
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ollama: %v", c.unavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return providerError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// withTag appends the implicit ":latest" tag Ollama gives untagged models.
func withTag(name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return name + ":latest"
}

type errorResponse struct {
	Error string `json:"error"`
}

func providerError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := string(body)
	if err != nil {
		msg = "failed to read response"
	}
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		msg = er.Error
	}
	return &domain.ProviderError{
		Provider:   string(domain.AIProviderOllama),
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}
