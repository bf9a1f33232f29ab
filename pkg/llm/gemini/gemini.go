// Package gemini implements llm.Generator on top of the Google Gen AI SDK.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/papercomputeco/mentor/pkg/llm"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.0-flash"

// Config configures a Gemini client.
type Config struct {
	APIKey string
	Model  string

	// Temperature is forwarded when non-nil.
	Temperature *float32
}

// Client sends prompts to the Gemini API.
type Client struct {
	client *genai.Client
	config Config
	logger *zap.Logger
}

var _ llm.Generator = (*Client)(nil)

// New creates a Gemini client.
func New(ctx context.Context, config Config, logger *zap.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if strings.TrimSpace(config.Model) == "" {
		config.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Generate sends prompt as a single user turn and returns the reply text.
// API errors keep the SDK message, which carries the HTTP status code.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var genConfig *genai.GenerateContentConfig
	if c.config.Temperature != nil {
		genConfig = &genai.GenerateContentConfig{Temperature: c.config.Temperature}
	}

	c.logger.Debug("sending prompt to gemini",
		zap.String("model", c.config.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	resp, err := c.client.Models.GenerateContent(ctx, c.config.Model, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return resp.Text(), nil
}
