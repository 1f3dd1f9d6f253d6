package pdftext

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/ledongthuc/pdf"
)

var _ = Describe("groupIntoLines", func() {
	var (
		tokens []pdf.Text
		lines  []Line
	)

	JustBeforeEach(func() {
		lines = groupIntoLines(tokens, 0)
	})

	When("tokens share a line with slightly different baselines", func() {
		BeforeEach(func() {
			// 700.04 and 700.01 both round to 700.0
			tokens = []pdf.Text{
				{S: "8700.00", X: 120, Y: 700.04, W: 40, FontSize: 12},
				{S: "Сумма", X: 10, Y: 700.01, W: 35, FontSize: 12},
			}
		})

		It("groups them into one line", func() {
			Expect(lines).To(HaveLen(1))
		})

		It("orders words left to right", func() {
			Expect(lines[0].Text).To(Equal("Сумма 8700.00"))
		})
	})

	When("tokens sit on different lines", func() {
		BeforeEach(func() {
			tokens = []pdf.Text{
				{S: "bottom", X: 10, Y: 100, W: 30, FontSize: 10},
				{S: "top", X: 10, Y: 700, W: 30, FontSize: 10},
				{S: "middle", X: 10, Y: 400, W: 30, FontSize: 10},
			}
		})

		It("emits lines in reading order, top of the page first", func() {
			Expect(lines).To(HaveLen(3))
			Expect(lines[0].Text).To(Equal("top"))
			Expect(lines[1].Text).To(Equal("middle"))
			Expect(lines[2].Text).To(Equal("bottom"))
		})

		It("records the page and vertical position", func() {
			Expect(lines[0].Page).To(Equal(0))
			Expect(lines[0].Y).To(Equal(700.0))
		})
	})

	When("tokens are all whitespace", func() {
		BeforeEach(func() {
			tokens = []pdf.Text{
				{S: "  ", X: 10, Y: 500, W: 5, FontSize: 10},
				{S: "\t", X: 20, Y: 500, W: 5, FontSize: 10},
			}
		})

		It("drops the empty line", func() {
			Expect(lines).To(BeEmpty())
		})
	})

	When("there are no tokens", func() {
		BeforeEach(func() {
			tokens = nil
		})

		It("returns no lines", func() {
			Expect(lines).To(BeEmpty())
		})
	})
})

var _ = Describe("joinLines", func() {
	It("joins line texts with newlines, skipping blanks", func() {
		text := joinLines([]Line{
			{Text: "first"},
			{Text: "   "},
			{Text: "second"},
		})
		Expect(text).To(Equal("first\nsecond"))
	})

	It("is stable across repeated calls", func() {
		lines := []Line{{Text: "a"}, {Text: "b"}}
		Expect(joinLines(lines)).To(Equal(joinLines(lines)))
	})
})

var _ = Describe("ExtractLines", func() {
	It("returns an ExtractionError for a missing file", func() {
		_, err := ExtractLines("does-not-exist.pdf")
		Expect(err).To(HaveOccurred())
		var exErr *ExtractionError
		Expect(errors.As(err, &exErr)).To(BeTrue())
	})
})

var _ = Describe("IsSearchable", func() {
	It("treats an unreadable document as not searchable", func() {
		Expect(IsSearchable("does-not-exist.pdf")).To(BeFalse())
	})
})
