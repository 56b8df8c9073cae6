package ipg_test

import (
	"net/url"
	"time"

	errors "github.com/frahmantamala/ipg-checkout/internal"
	"github.com/frahmantamala/ipg-checkout/internal/ipg"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Request Builder", func() {
	var (
		settings ipg.Settings
		fixed    time.Time
	)

	BeforeEach(func() {
		settings = ipg.Settings{
			StoreID:      "3910010",
			SharedSecret: "sharedsecret",
			Timezone:     "America/Mexico_City",
			Currency:     "484",
			Sandbox:      true,
			CheckoutURL:  "https://shop.example.com/checkout/",
		}
		fixed = time.Date(2024, 1, 15, 16, 30, 0, 0, time.UTC)
	})

	Describe("Endpoint", func() {
		It("selects the sandbox url", func() {
			Expect(ipg.Endpoint(true)).To(Equal("https://test.ipg-online.com/connect/gateway/processing"))
		})

		It("selects the production url", func() {
			Expect(ipg.Endpoint(false)).To(Equal("https://ipg-online.com/connect/gateway/processing"))
		})
	})

	DescribeTable("FormatAmount",
		func(raw, expected string) {
			Expect(ipg.FormatAmount(decimal.RequireFromString(raw))).To(Equal(expected))
		},
		Entry("one fractional digit", "49.9", "49.90"),
		Entry("half digit", "1234.5", "1234.50"),
		Entry("zero", "0", "0.00"),
		Entry("rounds up across the integer part", "999.999", "1000.00"),
		Entry("half away from zero", "10.005", "10.01"),
		Entry("no thousands separator", "1234567.8", "1234567.80"),
	)

	Describe("ReturnURL", func() {
		It("appends the key and the status flag", func() {
			u := ipg.ReturnURL("https://shop.example.com/checkout/", "1024", "wc_order_abc", ipg.StatSuccess)
			Expect(u).To(Equal("https://shop.example.com/checkout/order-received/1024/?key=wc_order_abc&ipg_stat=1"))
		})

		It("tolerates a checkout url without a trailing slash", func() {
			u := ipg.ReturnURL("https://shop.example.com/checkout", "7", "k", ipg.StatFail)
			Expect(u).To(Equal("https://shop.example.com/checkout/order-received/7/?key=k&ipg_stat=0"))
		})
	})

	Describe("NewBuilder", func() {
		It("fails loudly on an unresolvable timezone", func() {
			settings.Timezone = "Nowhere/Special"
			_, err := ipg.NewBuilder(settings)
			Expect(err).To(MatchError(errors.ErrInvalidTimezone))
		})

		It("fails on an empty timezone", func() {
			settings.Timezone = ""
			_, err := ipg.NewBuilder(settings)
			Expect(err).To(MatchError(errors.ErrInvalidTimezone))
		})
	})

	Describe("Build", func() {
		var (
			builder *ipg.Builder
			order   ipg.Order
		)

		BeforeEach(func() {
			var err error
			builder, err = ipg.NewBuilder(settings, ipg.WithClock(func() time.Time { return fixed }))
			Expect(err).NotTo(HaveOccurred())

			order = ipg.Order{ID: "1024", Key: "wc_order_abc", Total: decimal.RequireFromString("49.9")}
		})

		It("produces the fixture request", func() {
			req := builder.Build(order)

			Expect(req.Endpoint).To(Equal(ipg.SandboxEndpoint))
			Expect(req.OrderID).To(Equal("1024"))
			Expect(req.TxnType).To(Equal("sale"))
			Expect(req.Mode).To(Equal("payonly"))
			Expect(req.Timezone).To(Equal("America/Mexico_City"))
			Expect(req.TxnDateTime).To(Equal("2024:01:15-10:30:00"))
			Expect(req.HashAlgorithm).To(Equal("SHA256"))
			Expect(req.ChargeTotal).To(Equal("49.90"))
			Expect(req.Currency).To(Equal("484"))
			Expect(req.StoreName).To(Equal("3910010"))
			Expect(req.Hash).To(Equal("217b2294e1c355a6cf0ac9c8fe22c76712a9c9cce5d621b911116e11bf84c6c3"))
		})

		It("signs the same timestamp it embeds", func() {
			calls := 0
			clock := func() time.Time {
				calls++
				return fixed.Add(time.Duration(calls) * time.Second)
			}
			b, err := ipg.NewBuilder(settings, ipg.WithClock(clock))
			Expect(err).NotTo(HaveOccurred())

			req := b.Build(order)
			Expect(calls).To(Equal(1))
			Expect(req.Hash).To(Equal(ipg.CreateHash("3910010", req.TxnDateTime, "49.90", "484", "sharedsecret")))
		})

		It("carries the order key in both return urls", func() {
			req := builder.Build(order)

			success, err := url.Parse(req.ResponseSuccessURL)
			Expect(err).NotTo(HaveOccurred())
			Expect(success.Query().Get("key")).To(Equal("wc_order_abc"))
			Expect(success.Query().Get("ipg_stat")).To(Equal("1"))

			fail, err := url.Parse(req.ResponseFailURL)
			Expect(err).NotTo(HaveOccurred())
			Expect(fail.Query().Get("key")).To(Equal("wc_order_abc"))
			Expect(fail.Query().Get("ipg_stat")).To(Equal("0"))
		})

		It("uses the production endpoint when sandbox is off", func() {
			settings.Sandbox = false
			b, err := ipg.NewBuilder(settings, ipg.WithClock(func() time.Time { return fixed }))
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Build(order).Endpoint).To(Equal(ipg.ProductionEndpoint))
		})

		It("lists fields in posting order", func() {
			fields := builder.Build(order).Fields()

			names := make([]string, 0, len(fields))
			for _, f := range fields {
				names = append(names, f.Name)
			}
			Expect(names).To(Equal([]string{
				"ponumber", "txntype", "timezone", "txndatetime", "hash_algorithm", "hash",
				"storename", "mode", "chargetotal", "currency", "responseSuccessURL", "responseFailURL",
			}))
		})

		It("exposes the fields as form values", func() {
			values := builder.Build(order).Values()
			Expect(values.Get("chargetotal")).To(Equal("49.90"))
			Expect(values.Get("storename")).To(Equal("3910010"))
		})
	})
})
