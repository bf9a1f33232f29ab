// Package llm provides the generation client abstractions used by the mentor:
// the Generator interface, the rate-limit retry wrapper and the wire types shared
// by the model backends.
package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorResponse represents an error returned to API callers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrRateLimitExceeded is matched by every *RateLimitExceededError.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// rateLimitSignal is the substring that marks a throttling failure in an error message.
const rateLimitSignal = "429"

// RateLimitExceededError is returned once the retry budget is spent on throttled attempts.
// It never carries a partial result.
type RateLimitExceededError struct {
	Attempts int
	Err      error
}

func (e *RateLimitExceededError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("rate limit exceeded after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("rate limit exceeded after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RateLimitExceededError) Unwrap() error { return e.Err }

func (e *RateLimitExceededError) Is(target error) bool {
	return target == ErrRateLimitExceeded
}

// IsRateLimit reports whether err looks like a throttling failure.
// Backends surface errors as free text, so the check is a substring match on "429".
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), rateLimitSignal)
}
