// Package setup builds the configuration, logger and mentor shared by the mentor
// subcommands.
package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/mentor/pkg/config"
	"github.com/papercomputeco/mentor/pkg/llm"
	"github.com/papercomputeco/mentor/pkg/llm/gemini"
	"github.com/papercomputeco/mentor/pkg/llm/ollama"
	"github.com/papercomputeco/mentor/pkg/logger"
	"github.com/papercomputeco/mentor/pkg/mentor"
)

// Flags holds the persistent flags of the root command.
type Flags struct {
	ConfigPath string
	Debug      bool
	Provider   string
	Model      string

	// Backend replaces the configured model provider when set.
	Backend llm.Generator
}

// Register adds the persistent flags to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.ConfigPath, "config", "c", "", "Path to a TOML config file")
	pf.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	pf.StringVar(&f.Provider, "provider", "", "Model provider (gemini or ollama)")
	pf.StringVar(&f.Model, "model", "", "Model name")
}

// LoadConfig loads the config file and applies the flag overrides.
func (f *Flags) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}

	if f.Debug {
		cfg.Debug = true
	}
	if f.Provider != "" {
		cfg.Model.Provider = f.Provider
	}
	if f.Model != "" {
		cfg.Model.Name = f.Model
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Env is everything a command needs to talk to the mentor.
type Env struct {
	Config *config.Config
	Logger *zap.Logger

	// Retry wraps the backend; its policy can be replaced while running.
	Retry  *llm.RetryGenerator
	Mentor *mentor.Mentor
}

// Load builds an Env from the flags.
func (f *Flags) Load(ctx context.Context) (*Env, error) {
	cfg, err := f.LoadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{Debug: cfg.Debug, Format: cfg.LogFormat})
	if err != nil {
		return nil, err
	}

	backend := f.Backend
	if backend == nil {
		backend, err = NewBackend(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
	}

	retry := llm.NewRetryGenerator(backend, cfg.RetryPolicy(), log)

	return &Env{
		Config: cfg,
		Logger: log,
		Retry:  retry,
		Mentor: mentor.New(retry, log, mentor.WithHistoryWindow(cfg.Mentor.HistoryWindow)),
	}, nil
}

// Close flushes the logger.
func (e *Env) Close() {
	_ = e.Logger.Sync()
}

// NewBackend creates the generation backend selected by cfg.
func NewBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (llm.Generator, error) {
	switch cfg.Model.Provider {
	case config.ProviderGemini:
		if cfg.Model.APIKey == "" {
			return nil, errors.New("no Gemini API key: set " + config.EnvGeminiAPIKey + " or model.api_key")
		}
		gc := gemini.Config{APIKey: cfg.Model.APIKey, Model: cfg.Model.Name}
		if t := cfg.Model.Temperature; t != nil {
			f := float32(*t)
			gc.Temperature = &f
		}
		client, err := gemini.New(ctx, gc, log)
		if err != nil {
			return nil, err
		}
		return client, nil

	case config.ProviderOllama:
		oc := ollama.Config{BaseURL: cfg.Model.BaseURL, Model: cfg.Model.Name}
		if cfg.Model.Temperature != nil {
			oc.Options = &llm.Options{Temperature: cfg.Model.Temperature}
		}
		return ollama.New(oc, log), nil
	}
	return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
}
