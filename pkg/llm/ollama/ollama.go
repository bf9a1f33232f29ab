// Package ollama implements llm.Generator against an Ollama-compatible /api/chat endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/mentor/pkg/llm"
)

// Config configures an Ollama client.
type Config struct {
	// BaseURL of the upstream (e.g., "http://localhost:11434")
	BaseURL string

	// Model name passed upstream (e.g., "gemma3")
	Model string

	// Options are forwarded as-is when non-nil.
	Options *llm.Options
}

// Client sends non-streaming chat requests upstream.
type Client struct {
	config     Config
	logger     *zap.Logger
	httpClient *http.Client
}

var _ llm.Generator = (*Client)(nil)

// New creates an Ollama client.
func New(config Config, logger *zap.Logger) *Client {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			// Local models can be slow on first load
			Timeout: 5 * time.Minute,
		},
	}
}

// Generate sends prompt as a single user message and returns the assistant reply.
// A non-200 status is reported as "upstream returned <code>: <body>".
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	streaming := false
	req := &llm.ChatRequest{
		Model:    c.config.Model,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Stream:   &streaming,
		Options:  c.config.Options,
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	upstreamURL := c.config.BaseURL + "/api/chat"
	c.logger.Debug("forwarding prompt to upstream",
		zap.String("url", upstreamURL),
		zap.Int("body_size", len(reqBody)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, upstreamURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream returned %d: %s", httpResp.StatusCode, strings.TrimSpace(string(body)))
	}

	var resp llm.ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	c.logger.Debug("upstream replied",
		zap.String("model", resp.Model),
		zap.Int("eval_count", resp.EvalCount),
		zap.Duration("total_duration", time.Duration(resp.TotalDuration)),
	)

	return resp.Message.Content, nil
}
