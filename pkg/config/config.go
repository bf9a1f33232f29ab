// Package config loads the mentor configuration from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/mentor/pkg/llm"
)

// Supported model providers.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Environment variables read by Load.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvProvider     = "MENTOR_PROVIDER"
	EnvModel        = "MENTOR_MODEL"
	EnvOllamaURL    = "MENTOR_OLLAMA_URL"
)

// Duration is a time.Duration written as a string ("5s", "1m30s") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full mentor configuration.
type Config struct {
	Debug bool `toml:"debug"`

	// LogFormat is "console" or "json"
	LogFormat string `toml:"log_format"`

	Model  ModelConfig  `toml:"model"`
	Retry  RetryConfig  `toml:"retry"`
	Mentor MentorConfig `toml:"mentor"`
	Server ServerConfig `toml:"server"`
}

// ModelConfig selects and configures the generation backend.
type ModelConfig struct {
	// Provider is "gemini" or "ollama"
	Provider string `toml:"provider"`

	// Name is the model name passed to the provider
	Name string `toml:"name"`

	// BaseURL of an Ollama upstream (e.g., "http://localhost:11434")
	BaseURL string `toml:"base_url"`

	// APIKey for Gemini. Prefer the GEMINI_API_KEY environment variable.
	APIKey string `toml:"api_key"`

	Temperature *float64 `toml:"temperature"`
}

// RetryConfig mirrors llm.RetryPolicy.
type RetryConfig struct {
	MaxRetries     int      `toml:"max_retries"`
	BaseDelay      Duration `toml:"base_delay"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// MentorConfig tunes mentoring prompts.
type MentorConfig struct {
	// HistoryWindow is how many prior turns chat prompts include
	HistoryWindow int `toml:"history_window"`
}

// ServerConfig configures `mentor serve`.
type ServerConfig struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string `toml:"listen"`

	// DBPath is the SQLite archive path. Empty keeps the archive in memory.
	DBPath string `toml:"db"`

	// MaxSessions caps live chat sessions. Zero means no cap.
	MaxSessions int `toml:"max_sessions"`

	// SessionIdleTTL expires chat sessions unused for this long. Zero keeps them.
	SessionIdleTTL Duration `toml:"session_idle_ttl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	policy := llm.DefaultRetryPolicy()
	return &Config{
		LogFormat: "console",
		Model: ModelConfig{
			Provider: ProviderGemini,
			Name:     "gemini-2.0-flash",
			BaseURL:  "http://localhost:11434",
		},
		Retry: RetryConfig{
			MaxRetries:     policy.MaxRetries,
			BaseDelay:      Duration{policy.BaseDelay},
			RequestTimeout: Duration{policy.RequestTimeout},
		},
		Mentor: MentorConfig{
			HistoryWindow: 4,
		},
		Server: ServerConfig{
			ListenAddr:     ":8080",
			MaxSessions:    1000,
			SessionIdleTTL: Duration{time.Hour},
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path (when path is not
// empty) and then with the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("could not read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv(EnvProvider); v != "" {
		c.Model.Provider = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Model.Name = v
	}
	if v := os.Getenv(EnvOllamaURL); v != "" {
		c.Model.BaseURL = v
	}
}

// Validate checks values that would otherwise fail later at request time.
func (c *Config) Validate() error {
	var errs []error

	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be \"console\" or \"json\", got %q", c.LogFormat))
	}
	switch c.Model.Provider {
	case ProviderGemini, ProviderOllama:
	default:
		errs = append(errs, fmt.Errorf("model.provider must be %q or %q, got %q", ProviderGemini, ProviderOllama, c.Model.Provider))
	}
	if c.Model.Provider == ProviderOllama && c.Model.BaseURL == "" {
		errs = append(errs, errors.New("model.base_url is required for the ollama provider"))
	}
	if c.Retry.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("retry.max_retries must be at least 1, got %d", c.Retry.MaxRetries))
	}
	if c.Retry.BaseDelay.Duration < 0 {
		errs = append(errs, errors.New("retry.base_delay must not be negative"))
	}
	if c.Retry.RequestTimeout.Duration < 0 {
		errs = append(errs, errors.New("retry.request_timeout must not be negative"))
	}
	if c.Mentor.HistoryWindow < 0 {
		errs = append(errs, errors.New("mentor.history_window must not be negative"))
	}
	if c.Server.MaxSessions < 0 {
		errs = append(errs, errors.New("server.max_sessions must not be negative"))
	}
	if c.Server.SessionIdleTTL.Duration < 0 {
		errs = append(errs, errors.New("server.session_idle_ttl must not be negative"))
	}

	return errors.Join(errs...)
}

// RetryPolicy converts the retry section into an llm.RetryPolicy.
func (c *Config) RetryPolicy() llm.RetryPolicy {
	return llm.RetryPolicy{
		MaxRetries:     c.Retry.MaxRetries,
		BaseDelay:      c.Retry.BaseDelay.Duration,
		RequestTimeout: c.Retry.RequestTimeout.Duration,
	}
}
