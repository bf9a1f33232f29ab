package structure_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/mentor/pkg/structure"
)

var _ = Describe("DetectTemplateType", func() {
	DescribeTable("first matching category wins",
		func(problem string, want structure.TemplateType) {
			Expect(structure.DetectTemplateType(problem)).To(Equal(want))
		},
		Entry("budget", "We need a budget for this", structure.TemplateBudget),
		Entry("stakeholder", "Community stakeholders are upset", structure.TemplateStakeholder),
		Entry("budget beats stakeholder", "The community cannot cover the cost", structure.TemplateBudget),
		Entry("timeline", "We keep missing the DEADLINE", structure.TemplateTimeline),
		Entry("stakeholder beats timeline", "People want a schedule", structure.TemplateStakeholder),
		Entry("swot", "What is our biggest weakness?", structure.TemplateSWOT),
		Entry("default", "The streetlights are broken", structure.TemplateActionPlan),
		Entry("empty", "", structure.TemplateActionPlan),
	)
})

var _ = Describe("TemplateType", func() {
	It("resolves auto by detection", func() {
		Expect(structure.TemplateAuto.Resolve("funding gap")).To(Equal(structure.TemplateBudget))
		Expect(structure.TemplateType("").Resolve("nothing")).To(Equal(structure.TemplateActionPlan))
	})

	It("keeps an explicit choice", func() {
		Expect(structure.TemplateSWOT.Resolve("budget")).To(Equal(structure.TemplateSWOT))
	})

	It("parses known names case-insensitively", func() {
		t, ok := structure.ParseTemplateType(" Timeline ")
		Expect(ok).To(BeTrue())
		Expect(t).To(Equal(structure.TemplateTimeline))

		t, ok = structure.ParseTemplateType("")
		Expect(ok).To(BeTrue())
		Expect(t).To(Equal(structure.TemplateAuto))

		_, ok = structure.ParseTemplateType("gantt")
		Expect(ok).To(BeFalse())
	})
})
