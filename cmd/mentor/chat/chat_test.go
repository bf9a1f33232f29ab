package chatcmder

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/mentor/cmd/mentor/setup"
	"github.com/papercomputeco/mentor/pkg/llm"
)

var _ = Describe("Chat Command", func() {
	var (
		prompts []string
		out     *bytes.Buffer
	)

	BeforeEach(func() {
		prompts = nil
		out = &bytes.Buffer{}
	})

	run := func(stdin string, args ...string) error {
		gen := llm.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
			prompts = append(prompts, prompt)
			return fmt.Sprintf("reply %d", len(prompts)), nil
		})
		cmd := NewChatCmd(&setup.Flags{Backend: gen})
		cmd.SetOut(out)
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetArgs(args)
		return cmd.ExecuteContext(context.Background())
	}

	It("answers each line and carries the conversation", func() {
		Expect(run("Nobody comes to meetings\n\nWe tried flyers\n")).To(Succeed())

		Expect(prompts).To(HaveLen(2))
		Expect(prompts[0]).To(ContainSubstring("critical_thinking mentor"))
		Expect(prompts[1]).To(ContainSubstring("user: Nobody comes to meetings"))
		Expect(prompts[1]).To(ContainSubstring("mentor: reply 1"))
		Expect(out.String()).To(Equal("reply 1\nreply 2\n"))
	})

	It("forgets the conversation on /reset", func() {
		Expect(run("first message\n/reset\nsecond message\n")).To(Succeed())

		Expect(prompts).To(HaveLen(2))
		Expect(prompts[1]).NotTo(ContainSubstring("first message"))
		Expect(out.String()).To(ContainSubstring("Conversation cleared."))
	})

	It("switches mode with /mode", func() {
		Expect(run("/mode solution\nhow do we start?\n")).To(Succeed())

		Expect(out.String()).To(HavePrefix("Mode: solution\n"))
		Expect(prompts[0]).To(ContainSubstring("solution mentor"))
	})

	It("reports an unknown mode and keeps going", func() {
		Expect(run("/mode poetic\nhello\n")).To(Succeed())

		Expect(out.String()).To(ContainSubstring(`unknown mode "poetic"`))
		Expect(prompts).To(HaveLen(1))
	})

	It("stops at /quit", func() {
		Expect(run("hello\n/quit\nnever sent\n")).To(Succeed())
		Expect(prompts).To(HaveLen(1))
	})

	It("starts in the mode given by --mode", func() {
		Expect(run("hello\n", "--mode", "solution")).To(Succeed())
		Expect(prompts[0]).To(ContainSubstring("solution mentor"))
	})

	It("rejects an unknown --mode", func() {
		Expect(run("hello\n", "--mode", "poetic")).To(HaveOccurred())
		Expect(prompts).To(BeEmpty())
	})
})
