package thinkcmder

import (
	"bytes"
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/mentor/cmd/mentor/setup"
	"github.com/papercomputeco/mentor/pkg/llm"
)

const guidance = `GUIDING QUESTIONS:
- Who is affected most?

NEXT STEPS:
- Map the volunteers you already have
`

var _ = Describe("Think Command", func() {
	var (
		prompts []string
		reply   string
		failErr error
		out     *bytes.Buffer
	)

	BeforeEach(func() {
		prompts = nil
		reply = guidance
		failErr = nil
		out = &bytes.Buffer{}
	})

	run := func(stdin string, args ...string) error {
		gen := llm.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
			prompts = append(prompts, prompt)
			return reply, failErr
		})
		cmd := NewThinkCmd(&setup.Flags{Backend: gen})
		cmd.SetOut(out)
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetArgs(args)
		return cmd.ExecuteContext(context.Background())
	}

	It("renders Socratic guidance for the problem in the arguments", func() {
		Expect(run("", "--context", "rural town", "Volunteers", "quit", "in", "winter")).To(Succeed())

		Expect(prompts).To(HaveLen(1))
		Expect(prompts[0]).To(ContainSubstring("Volunteers quit in winter"))
		Expect(prompts[0]).To(ContainSubstring("rural town"))

		Expect(out.String()).To(ContainSubstring("## Guiding Questions\n\n- Who is affected most?"))
		Expect(out.String()).To(ContainSubstring("## Next Steps\n\n- Map the volunteers you already have"))
	})

	It("reads the problem from stdin when no arguments are given", func() {
		Expect(run("  Vacant lots attract dumping\n")).To(Succeed())
		Expect(prompts[0]).To(ContainSubstring("Vacant lots attract dumping"))
	})

	It("fails on an empty problem without calling the backend", func() {
		Expect(run("   \n")).To(MatchError(ContainSubstring("no problem given")))
		Expect(prompts).To(BeEmpty())
	})

	It("prints the failure and returns an error when generation fails", func() {
		failErr = errors.New("connection refused")

		Expect(run("", "Broken streetlights")).To(MatchError("mentor request failed"))
		Expect(out.String()).To(HavePrefix("error (critical_thinking): "))
		Expect(out.String()).To(ContainSubstring("connection refused"))
	})
})

var _ = Describe("ProblemText", func() {
	It("joins arguments with spaces", func() {
		text, err := ProblemText(strings.NewReader("ignored"), []string{"a", "b"})
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("a b"))
	})
})
