package recognizer

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Validate", func() {
	var (
		result Fields
		err    error
	)

	JustBeforeEach(func() {
		err = Validate(result)
	})

	When("all base fields are present and non-nil", func() {
		BeforeEach(func() {
			result = Fields{
				FieldSource:      "Ivan I.",
				FieldDestination: "**** 1234",
				FieldAmount:      8700.00,
				FieldFee:         0.0,
				FieldDate:        "2024-01-15",
			}
		})

		It("succeeds", func() {
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("several base fields are missing or nil", func() {
		BeforeEach(func() {
			result = Fields{
				FieldAmount: 8700.00,
				FieldFee:    nil,
				"extra":     "ignored",
			}
		})

		It("fails", func() {
			Expect(err).To(HaveOccurred())
		})

		It("lists every missing field in canonical order", func() {
			var vErr *ValidationError
			Expect(errors.As(err, &vErr)).To(BeTrue())
			Expect(vErr.Missing).To(Equal([]string{FieldSource, FieldDestination, FieldFee, FieldDate}))
		})

		It("names all missing fields in the message", func() {
			Expect(err.Error()).To(ContainSubstring("source, destination, fee, date"))
		})
	})

	When("the result is empty", func() {
		BeforeEach(func() {
			result = Fields{}
		})

		It("lists all five base fields", func() {
			var vErr *ValidationError
			Expect(errors.As(err, &vErr)).To(BeTrue())
			Expect(vErr.Missing).To(Equal(BaseFields))
		})
	})

	When("a field is present but explicitly nil", func() {
		BeforeEach(func() {
			result = Fields{
				FieldSource:      nil,
				FieldDestination: "**** 1234",
				FieldAmount:      8700.00,
				FieldFee:         0.0,
				FieldDate:        "2024-01-15",
			}
		})

		It("counts it as missing", func() {
			var vErr *ValidationError
			Expect(errors.As(err, &vErr)).To(BeTrue())
			Expect(vErr.Missing).To(Equal([]string{FieldSource}))
		})
	})
})
