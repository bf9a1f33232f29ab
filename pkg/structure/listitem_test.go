package structure_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/mentor/pkg/structure"
)

var _ = Describe("ParseListItems", func() {
	DescribeTable("cleans a single line",
		func(line, want string) {
			Expect(structure.ParseListItem(line)).To(Equal(want))
		},
		Entry("numbered", "1. Do the thing", "Do the thing"),
		Entry("bullet", "• Remember this", "Remember this"),
		Entry("two digit ordinal", "12. Twelfth", "Twelfth"),
		Entry("dash", "- dash", "dash"),
		Entry("en dash", "– en dash", "en dash"),
		Entry("em dash", "— em dash", "em dash"),
		Entry("arrow", "► arrow", "arrow"),
		Entry("small squares", "▪▫ squares", "squares"),
		Entry("bullet then ordinal", "  * 3. Combined", "Combined"),
		Entry("period past third character", "2024 plan. Go", "2024 plan. Go"),
		Entry("no ordinal", "Plain tip", "Plain tip"),
		Entry("only glyphs", " - • ", ""),
	)

	It("drops blank lines and preserves order", func() {
		items := structure.ParseListItems("1. first\n\n   \n• second\n- third\n")

		Expect(items).To(Equal([]string{"first", "second", "third"}))
	})

	It("returns an empty list for empty text", func() {
		Expect(structure.ParseListItems("")).To(BeEmpty())
	})
})
