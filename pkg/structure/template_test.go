package structure_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/mentor/pkg/structure"
)

const budgetReply = `Here is your template.

BUDGET OVERVIEW:
Total needed: $5,000
Sources: city grant, bake sale

EXPENSES:
- Paint
- Brushes

IMPLEMENTATION GUIDE:
Start by meeting the parks department.
Then set a date.

PRACTICAL TIPS:
1. Keep receipts
• Thank every donor
- 

2) Share progress online
`

var _ = Describe("ParseTemplate", func() {
	It("splits template sections, guide and tips", func() {
		t := structure.ParseTemplate(budgetReply, structure.TemplateBudget)

		Expect(t.TemplateType).To(Equal(structure.TemplateBudget))
		Expect(t.Sections).To(Equal([]structure.Section{
			{Title: "BUDGET OVERVIEW", Lines: []string{"Total needed: $5,000", "Sources: city grant, bake sale"}},
			{Title: "EXPENSES", Lines: []string{"- Paint", "- Brushes"}},
		}))
		Expect(t.ImplementationGuide).To(Equal("Start by meeting the parks department.\nThen set a date."))
		Expect(t.Tips).To(Equal([]string{"Keep receipts", "Thank every donor", "2) Share progress online"}))
		Expect(t.Raw).To(Equal(budgetReply))
	})

	It("drops lines before the first section header", func() {
		t := structure.ParseTemplate("intro text\nGOALS:\n- clean park\n", structure.TemplateActionPlan)

		Expect(t.Sections).To(HaveLen(1))
		Expect(t.Sections[0].Title).To(Equal("GOALS"))
		Expect(t.Sections[0].Lines).To(Equal([]string{"- clean park"}))
	})

	It("keeps uppercase text after the colon as the first section line", func() {
		t := structure.ParseTemplate("DEADLINE: Q3 2025\nconfirm with council\n", structure.TemplateTimeline)

		s, ok := t.Section("DEADLINE")
		Expect(ok).To(BeTrue())
		Expect(s.Lines).To(Equal([]string{"Q3 2025", "confirm with council"}))
	})

	It("keeps section lines verbatim", func() {
		t := structure.ParseTemplate("  MILESTONES:\n    - indented\n- flush  \n", structure.TemplateTimeline)

		Expect(t.Sections).To(Equal([]structure.Section{
			{Title: "MILESTONES", Lines: []string{"    - indented", "- flush  "}},
		}))
	})

	It("does not treat mixed-case lines with a colon as headers", func() {
		t := structure.ParseTemplate("PLAN:\nNote: ask first\n", structure.TemplateActionPlan)

		Expect(t.Sections).To(HaveLen(1))
		Expect(t.Sections[0].Lines).To(Equal([]string{"Note: ask first"}))
	})

	It("merges a repeated section title into its first occurrence", func() {
		t := structure.ParseTemplate("RISKS:\n- rain\nOWNERS:\n- Sam\nRISKS:\n- cost\n", structure.TemplateSWOT)

		Expect(t.Sections).To(Equal([]structure.Section{
			{Title: "RISKS", Lines: []string{"- rain", "- cost"}},
			{Title: "OWNERS", Lines: []string{"- Sam"}},
		}))
	})

	It("leaves guide and tips empty without the implementation marker", func() {
		t := structure.ParseTemplate("STEPS:\n- one\n", structure.TemplateActionPlan)

		Expect(t.ImplementationGuide).To(BeEmpty())
		Expect(t.Tips).To(BeEmpty())
	})

	It("keeps the whole tail as guide when tips are missing", func() {
		t := structure.ParseTemplate("IMPLEMENTATION GUIDE:\n  Do it carefully.  \n", structure.TemplateActionPlan)

		Expect(t.Sections).To(BeEmpty())
		Expect(t.ImplementationGuide).To(Equal("Do it carefully."))
		Expect(t.Tips).To(BeEmpty())
	})

	It("degrades to an empty structure for free-form text", func() {
		t := structure.ParseTemplate("I could not build a template for that.", structure.TemplateActionPlan)

		Expect(t.Empty()).To(BeTrue())
		Expect(t.Raw).To(Equal("I could not build a template for that."))
	})

	It("is idempotent", func() {
		Expect(structure.ParseTemplate(budgetReply, structure.TemplateBudget)).
			To(Equal(structure.ParseTemplate(budgetReply, structure.TemplateBudget)))
	})

	It("exposes a field mapping", func() {
		fields := structure.ParseTemplate(budgetReply, structure.TemplateBudget).Fields()

		Expect(fields).To(HaveKey("BUDGET OVERVIEW"))
		Expect(fields).To(HaveKey("EXPENSES"))
		Expect(fields).To(HaveKeyWithValue("implementation_guide", "Start by meeting the parks department.\nThen set a date."))
		Expect(fields).To(HaveKey("tips"))
	})
})
