package recognizer

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CheckCompatibility", func() {
	It("accepts identical versions", func() {
		Expect(CheckCompatibility("1.0.0", "1.0.0")).To(Succeed())
	})

	It("accepts differing minor and patch versions", func() {
		Expect(CheckCompatibility("1.0.0", "1.9.3")).To(Succeed())
	})

	It("rejects differing major versions", func() {
		err := CheckCompatibility("1.0.0", "2.0.0")
		Expect(err).To(HaveOccurred())

		var vErr *VersionMismatchError
		Expect(errors.As(err, &vErr)).To(BeTrue())
		Expect(vErr.ClientVersion).To(Equal("1.0.0"))
		Expect(vErr.ServerVersion).To(Equal("2.0.0"))
	})

	It("names both versions in the message", func() {
		err := CheckCompatibility("1.0.0", "2.1.0")
		Expect(err.Error()).To(ContainSubstring("1.0.0"))
		Expect(err.Error()).To(ContainSubstring("2.1.0"))
	})

	It("compares majors as strings without numeric parsing", func() {
		Expect(CheckCompatibility("10.0.0", "10.5.1")).To(Succeed())
		Expect(CheckCompatibility("1.0.0", "10.0.0")).NotTo(Succeed())
	})
})
