package structure_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/mentor/pkg/structure"
)

var _ = Describe("ParseSocratic", func() {
	It("splits sections at the first blank line", func() {
		g := structure.ParseSocratic("GUIDING QUESTIONS:\n- a\n- b\n\nREFLECTION PROMPTS:\n- c\n")

		Expect(g.GuidingQuestions).To(Equal([]string{"a", "b"}))
		Expect(g.ReflectionPrompts).To(Equal([]string{"c"}))
		Expect(g.ChallengePoints).To(BeEmpty())
		Expect(g.NextSteps).To(BeEmpty())
	})

	It("returns four empty lists when no header is present", func() {
		for _, raw := range []string{"", "Just some advice.", "guiding questions: lower case does not count"} {
			g := structure.ParseSocratic(raw)

			Expect(g.GuidingQuestions).To(BeEmpty())
			Expect(g.ReflectionPrompts).To(BeEmpty())
			Expect(g.ChallengePoints).To(BeEmpty())
			Expect(g.NextSteps).To(BeEmpty())
			Expect(g.Empty()).To(BeTrue())
			Expect(g.Raw).To(Equal(raw))
		}
	})

	It("strips every bullet style and surrounding whitespace", func() {
		raw := "NEXT STEPS:\n  * Call the council  \n• Map the area\n-- Recruit volunteers\nTalk to neighbours\n"
		g := structure.ParseSocratic(raw)

		Expect(g.NextSteps).To(Equal([]string{
			"Call the council",
			"Map the area",
			"Recruit volunteers",
			"Talk to neighbours",
		}))
	})

	It("skips blank lines directly after the header", func() {
		g := structure.ParseSocratic("GUIDING QUESTIONS:\n\n- a\n- b\n")

		Expect(g.GuidingQuestions).To(Equal([]string{"a", "b"}))
	})

	It("ends a section at a whitespace-only line", func() {
		g := structure.ParseSocratic("GUIDING QUESTIONS:\n- a\n   \n- b\n")

		Expect(g.GuidingQuestions).To(Equal([]string{"a"}))
	})

	It("keeps source order and duplicates", func() {
		g := structure.ParseSocratic("CHALLENGE POINTS:\n- same\n- other\n- same\n")

		Expect(g.ChallengePoints).To(Equal([]string{"same", "other", "same"}))
	})

	It("reads sections regardless of their order in the reply", func() {
		raw := "NEXT STEPS:\n- last\n\nGUIDING QUESTIONS:\n- first\n"
		g := structure.ParseSocratic(raw)

		Expect(g.GuidingQuestions).To(Equal([]string{"first"}))
		Expect(g.NextSteps).To(Equal([]string{"last"}))
	})

	It("uses the first occurrence of a duplicated header", func() {
		raw := "GUIDING QUESTIONS:\n- one\n\nGUIDING QUESTIONS:\n- two\n"
		g := structure.ParseSocratic(raw)

		Expect(g.GuidingQuestions).To(Equal([]string{"one"}))
	})

	It("accepts content on the header line and CRLF line endings", func() {
		g := structure.ParseSocratic("GUIDING QUESTIONS: Who benefits?\r\n- Who pays?\r\n\r\nNEXT STEPS:\r\n- Act\r\n")

		Expect(g.GuidingQuestions).To(Equal([]string{"Who benefits?", "Who pays?"}))
		Expect(g.NextSteps).To(Equal([]string{"Act"}))
	})

	It("is idempotent", func() {
		raw := "GUIDING QUESTIONS:\n- a\n\nREFLECTION PROMPTS:\n- c\n\nCHALLENGE POINTS:\n- d\n\nNEXT STEPS:\n- e"

		Expect(structure.ParseSocratic(raw)).To(Equal(structure.ParseSocratic(raw)))
	})

	It("exposes a field mapping", func() {
		g := structure.ParseSocratic("REFLECTION PROMPTS:\n- c\n")

		Expect(g.Fields()).To(HaveKeyWithValue("reflection_prompts", []string{"c"}))
		Expect(g.Fields()).To(HaveKeyWithValue("guiding_questions", []string{}))
	})
})
