package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy bounds how a RetryGenerator reacts to throttling.
type RetryPolicy struct {
	// MaxRetries is the total number of attempts, including the first one.
	MaxRetries int

	// BaseDelay is scaled by the attempt number to get the wait after a throttled attempt.
	BaseDelay time.Duration

	// RequestTimeout bounds a single upstream attempt. Zero disables the bound.
	RequestTimeout time.Duration
}

// DefaultRetryPolicy returns three attempts with a 5s linear backoff and a 60s per-attempt timeout.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     3,
		BaseDelay:      5 * time.Second,
		RequestTimeout: 60 * time.Second,
	}
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// RetryGenerator wraps a Generator with a bounded retry loop for rate-limit errors.
// Every other error is returned immediately.
type RetryGenerator struct {
	next   Generator
	logger *zap.Logger
	sleep  Sleeper

	mu     sync.RWMutex
	policy RetryPolicy
}

// RetryOption customizes a RetryGenerator.
type RetryOption func(*RetryGenerator)

// WithSleeper replaces the wall-clock sleep between attempts.
func WithSleeper(s Sleeper) RetryOption {
	return func(g *RetryGenerator) {
		g.sleep = s
	}
}

// NewRetryGenerator creates a RetryGenerator around next.
func NewRetryGenerator(next Generator, policy RetryPolicy, logger *zap.Logger, opts ...RetryOption) *RetryGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &RetryGenerator{
		next:   next,
		logger: logger,
		sleep:  sleepContext,
		policy: policy,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Policy returns the policy currently in effect.
func (g *RetryGenerator) Policy() RetryPolicy {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.policy
}

// SetPolicy replaces the policy for subsequent calls. Calls already in flight keep theirs.
func (g *RetryGenerator) SetPolicy(policy RetryPolicy) {
	g.mu.Lock()
	g.policy = policy
	g.mu.Unlock()
}

// Generate sends prompt upstream. A throttled attempt k is followed by a wait of
// BaseDelay*k before attempt k+1; after MaxRetries throttled attempts the call fails
// with *RateLimitExceededError.
func (g *RetryGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	policy := g.Policy()
	attempts := policy.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := g.attempt(ctx, policy, prompt)
		if err == nil {
			if attempt > 1 {
				g.logger.Debug("generation succeeded after retry", zap.Int("attempt", attempt))
			}
			return text, nil
		}

		if !IsRateLimit(err) {
			return "", err
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		delay := policy.BaseDelay * time.Duration(attempt)
		g.logger.Warn("rate limit hit, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", attempts),
			zap.Duration("wait", delay),
			zap.Error(err),
		)

		if err := g.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("waiting to retry: %w", err)
		}
	}

	g.logger.Error("rate limit retries exhausted", zap.Int("attempts", attempts), zap.Error(lastErr))
	return "", &RateLimitExceededError{Attempts: attempts, Err: lastErr}
}

func (g *RetryGenerator) attempt(ctx context.Context, policy RetryPolicy, prompt string) (string, error) {
	if policy.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, policy.RequestTimeout)
		defer cancel()
	}
	return g.next.Generate(ctx, prompt)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
