package llm_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/mentor/pkg/llm"
)

var _ = Describe("RetryGenerator", func() {
	var (
		ctx    context.Context
		sleeps []time.Duration
		calls  int
		policy llm.RetryPolicy
	)

	recordSleep := func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	newGenerator := func(fn llm.GeneratorFunc) *llm.RetryGenerator {
		return llm.NewRetryGenerator(fn, policy, zap.NewNop(), llm.WithSleeper(recordSleep))
	}

	BeforeEach(func() {
		ctx = context.Background()
		sleeps = nil
		calls = 0
		policy = llm.RetryPolicy{MaxRetries: 3, BaseDelay: time.Second}
	})

	It("returns the reply without sleeping when the first attempt succeeds", func() {
		gen := newGenerator(func(context.Context, string) (string, error) {
			calls++
			return "ok", nil
		})

		text, err := gen.Generate(ctx, "prompt")
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("ok"))
		Expect(calls).To(Equal(1))
		Expect(sleeps).To(BeEmpty())
	})

	It("passes the prompt through unchanged", func() {
		var seen string
		gen := newGenerator(func(_ context.Context, prompt string) (string, error) {
			seen = prompt
			return "", nil
		})

		_, err := gen.Generate(ctx, "Describe the park cleanup")
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal("Describe the park cleanup"))
	})

	It("recovers after two throttled attempts with increasing waits", func() {
		gen := newGenerator(func(context.Context, string) (string, error) {
			calls++
			if calls <= 2 {
				return "", errors.New("Error 429, Message: Resource has been exhausted")
			}
			return "third time lucky", nil
		})

		text, err := gen.Generate(ctx, "prompt")
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("third time lucky"))
		Expect(calls).To(Equal(3))
		Expect(sleeps).To(HaveLen(2))
		Expect(sleeps[1]).To(BeNumerically(">=", sleeps[0]))
		Expect(sleeps).To(Equal([]time.Duration{time.Second, 2 * time.Second}))
	})

	It("fails with RateLimitExceeded after exactly MaxRetries attempts", func() {
		gen := newGenerator(func(context.Context, string) (string, error) {
			calls++
			return "", fmt.Errorf("upstream returned 429: slow down")
		})

		text, err := gen.Generate(ctx, "prompt")
		Expect(text).To(BeEmpty())
		Expect(err).To(MatchError(llm.ErrRateLimitExceeded))
		Expect(calls).To(Equal(3))

		var rle *llm.RateLimitExceededError
		Expect(errors.As(err, &rle)).To(BeTrue())
		Expect(rle.Attempts).To(Equal(3))
		Expect(rle.Err).To(MatchError(ContainSubstring("429")))
	})

	It("returns other failures immediately without retrying", func() {
		boom := errors.New("invalid api key")
		gen := newGenerator(func(context.Context, string) (string, error) {
			calls++
			return "", boom
		})

		_, err := gen.Generate(ctx, "prompt")
		Expect(err).To(Equal(boom))
		Expect(errors.Is(err, llm.ErrRateLimitExceeded)).To(BeFalse())
		Expect(calls).To(Equal(1))
		Expect(sleeps).To(BeEmpty())
	})

	It("stops retrying when a non rate-limit error follows a throttled attempt", func() {
		gen := newGenerator(func(context.Context, string) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("429 too many requests")
			}
			return "", errors.New("permission denied")
		})

		_, err := gen.Generate(ctx, "prompt")
		Expect(err).To(MatchError("permission denied"))
		Expect(calls).To(Equal(2))
		Expect(sleeps).To(HaveLen(1))
	})

	It("treats a non-positive MaxRetries as a single attempt", func() {
		policy.MaxRetries = 0
		gen := newGenerator(func(context.Context, string) (string, error) {
			calls++
			return "", errors.New("429")
		})

		_, err := gen.Generate(ctx, "prompt")
		Expect(err).To(MatchError(llm.ErrRateLimitExceeded))
		Expect(calls).To(Equal(1))
		Expect(sleeps).To(BeEmpty())
	})

	It("aborts the wait when the sleeper reports cancellation", func() {
		gen := llm.NewRetryGenerator(llm.GeneratorFunc(func(context.Context, string) (string, error) {
			calls++
			return "", errors.New("429")
		}), policy, zap.NewNop(), llm.WithSleeper(func(context.Context, time.Duration) error {
			return context.Canceled
		}))

		_, err := gen.Generate(ctx, "prompt")
		Expect(err).To(MatchError(context.Canceled))
		Expect(calls).To(Equal(1))
	})

	It("bounds each attempt with the request timeout", func() {
		policy.RequestTimeout = 10 * time.Millisecond
		gen := newGenerator(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

		_, err := gen.Generate(ctx, "prompt")
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})

	It("uses the replaced policy for later calls", func() {
		gen := newGenerator(func(context.Context, string) (string, error) {
			calls++
			return "", errors.New("429")
		})
		gen.SetPolicy(llm.RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond})

		_, err := gen.Generate(ctx, "prompt")
		Expect(err).To(MatchError(llm.ErrRateLimitExceeded))
		Expect(calls).To(Equal(2))
		Expect(gen.Policy().MaxRetries).To(Equal(2))
	})
})

var _ = Describe("IsRateLimit", func() {
	It("matches errors mentioning 429", func() {
		Expect(llm.IsRateLimit(errors.New("Error 429, Status: RESOURCE_EXHAUSTED"))).To(BeTrue())
	})

	It("ignores other errors and nil", func() {
		Expect(llm.IsRateLimit(errors.New("500 internal"))).To(BeFalse())
		Expect(llm.IsRateLimit(nil)).To(BeFalse())
	})
})
