package internal_test

import (
	"github.com/frahmantamala/ipg-checkout/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("GatewayConfig", func() {
	var gw internal.GatewayConfig

	BeforeEach(func() {
		gw = internal.DefaultGatewayConfig()
	})

	It("accepts the sandbox defaults", func() {
		Expect(gw.Validate()).To(Succeed())
	})

	It("reports an unknown zone as an invalid timezone", func() {
		gw.Timezone = "Mars/Olympus_Mons"
		Expect(gw.Validate()).To(MatchError(internal.ErrInvalidTimezone))
	})

	It("reports a missing zone as an invalid timezone", func() {
		gw.Timezone = ""
		Expect(gw.Validate()).To(MatchError(internal.ErrInvalidTimezone))
	})

	It("skips validation when the gateway is disabled", func() {
		gw.Enabled = false
		gw.Timezone = "Mars/Olympus_Mons"
		Expect(gw.Validate()).To(Succeed())
	})
})
