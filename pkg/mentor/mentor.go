// Package mentor runs mentoring exchanges: it builds the mode prompt, calls the
// generation backend and structures the reply into a Result.
package mentor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/mentor/pkg/llm"
	"github.com/papercomputeco/mentor/pkg/prompts"
	"github.com/papercomputeco/mentor/pkg/structure"
)

// Exchange is a completed prompt/reply pair handed to a Recorder.
type Exchange struct {
	SessionID string
	Mode      Mode
	Input     string
	Prompt    string
	Reply     string
}

// Recorder receives every successful exchange. Recording failures are logged and do
// not fail the exchange.
type Recorder interface {
	Record(ctx context.Context, ex Exchange) error
}

// Mentor turns community problems into guidance using a generation backend.
type Mentor struct {
	gen           llm.Generator
	logger        *zap.Logger
	historyWindow int
	recorder      Recorder
}

// Option customizes a Mentor.
type Option func(*Mentor)

// WithHistoryWindow sets how many prior turns a chat prompt includes.
func WithHistoryWindow(n int) Option {
	return func(m *Mentor) {
		if n > 0 {
			m.historyWindow = n
		}
	}
}

// WithRecorder sets the Recorder notified after each successful exchange.
func WithRecorder(r Recorder) Option {
	return func(m *Mentor) {
		m.recorder = r
	}
}

// New creates a Mentor. gen is usually an *llm.RetryGenerator.
func New(gen llm.Generator, logger *zap.Logger, opts ...Option) *Mentor {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Mentor{
		gen:           gen,
		logger:        logger,
		historyWindow: prompts.DefaultHistoryWindow,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CriticalThinking returns Socratic guidance for problem. background is optional.
func (m *Mentor) CriticalThinking(ctx context.Context, problem, background string) *Result {
	return m.Run(ctx, CriticalThinking, Request{Problem: problem, Context: background})
}

// Solution returns a solution template for problem. An empty or "auto" templateType is
// detected from the problem text.
func (m *Mentor) Solution(ctx context.Context, problem string, templateType structure.TemplateType) *Result {
	return m.Run(ctx, SolutionFocused, Request{Problem: problem, TemplateType: templateType})
}

// Run performs a single-shot exchange in the given mode.
func (m *Mentor) Run(ctx context.Context, mode Mode, req Request) *Result {
	strat, ok := strategies[mode]
	if !ok {
		return failure(mode, fmt.Sprintf("unsupported mode %s", mode))
	}
	if strings.TrimSpace(req.Problem) == "" {
		return failure(mode, "problem description is empty")
	}
	if mode == SolutionFocused {
		req.TemplateType = req.TemplateType.Resolve(req.Problem)
	}

	prompt := strat.prompt(req)
	raw, err := m.generate(ctx, mode, prompt)
	if err != nil {
		return generationFailure(mode, err)
	}

	res := &Result{Success: true, Mode: mode}
	strat.structure(raw, req, res)

	m.record(ctx, Exchange{Mode: mode, Input: req.Problem, Prompt: prompt, Reply: raw})
	return res
}

// Chat sends message within session. The user turn is kept even when generation
// fails; the mentor turn is appended only on success.
func (m *Mentor) Chat(ctx context.Context, session *Session, message string, mode Mode) *Result {
	if _, ok := strategies[mode]; !ok {
		return failure(mode, fmt.Sprintf("unsupported mode %s", mode))
	}
	if session == nil {
		return failure(mode, "no session")
	}
	if strings.TrimSpace(message) == "" {
		return failure(mode, "message is empty")
	}

	session.Append(llm.RoleUser, message)
	prompt := prompts.Chat(mode.String(), session.Recent(m.historyWindow), m.historyWindow, message)

	reply, err := m.generate(ctx, mode, prompt)
	if err != nil {
		return generationFailure(mode, err)
	}
	session.Append(llm.RoleMentor, reply)

	m.record(ctx, Exchange{SessionID: session.ID, Mode: mode, Input: message, Prompt: prompt, Reply: reply})
	return &Result{Success: true, Mode: mode, Reply: reply}
}

func (m *Mentor) generate(ctx context.Context, mode Mode, prompt string) (string, error) {
	m.logger.Debug("generating mentor reply",
		zap.Stringer("mode", mode),
		zap.Int("prompt_length", len(prompt)),
	)

	raw, err := m.gen.Generate(ctx, prompt)
	if err != nil {
		m.logger.Error("generation failed",
			zap.Stringer("mode", mode),
			zap.Bool("rate_limited", errors.Is(err, llm.ErrRateLimitExceeded)),
			zap.Error(err),
		)
		return "", err
	}
	return raw, nil
}

func (m *Mentor) record(ctx context.Context, ex Exchange) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Record(ctx, ex); err != nil {
		m.logger.Warn("failed to record exchange", zap.Stringer("mode", ex.Mode), zap.Error(err))
	}
}

func generationFailure(mode Mode, err error) *Result {
	if errors.Is(err, llm.ErrRateLimitExceeded) {
		res := failure(mode, "The mentor service is busy (rate limited). Please try again shortly: "+err.Error())
		res.RateLimited = true
		return res
	}
	return failure(mode, "The mentor could not generate a response: "+err.Error())
}
