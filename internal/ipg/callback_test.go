package ipg_test

import (
	"net/url"

	"github.com/frahmantamala/ipg-checkout/internal/ipg"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Callback", func() {
	DescribeTable("ParseFlag",
		func(raw string, expected ipg.Flag) {
			query, err := url.ParseQuery(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(ipg.ParseFlag(query)).To(Equal(expected))
		},
		Entry("missing", "key=abc", ipg.FlagAbsent),
		Entry("success", "key=abc&ipg_stat=1", ipg.FlagSuccess),
		Entry("fail", "key=abc&ipg_stat=0", ipg.FlagFail),
		Entry("empty value", "key=abc&ipg_stat=", ipg.FlagFail),
		Entry("unexpected value", "key=abc&ipg_stat=yes", ipg.FlagFail),
	)

	It("parses order identity from the return redirect", func() {
		query, _ := url.ParseQuery("key=wc_order_abc&ipg_stat=1")
		result := ipg.ParseCallback("1024", query)

		Expect(result.OrderID).To(Equal("1024"))
		Expect(result.OrderKey).To(Equal("wc_order_abc"))
		Expect(result.Flag).To(Equal(ipg.FlagSuccess))
		Expect(result.Flag.String()).To(Equal("success"))
	})
})
