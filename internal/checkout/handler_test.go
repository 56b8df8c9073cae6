package checkout_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/ipg-checkout/internal/checkout"
	"github.com/frahmantamala/ipg-checkout/internal/order"
	"github.com/frahmantamala/ipg-checkout/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Checkout Handler", func() {
	var (
		f      *fixture
		router chi.Router
	)

	BeforeEach(func() {
		f = newFixture(true)
		handler := checkout.NewHandler(f.service, "FirstData IPG Payment", transport.NewBaseHandler(f.logger))

		router = chi.NewRouter()
		router.Get("/checkout/order-received/{id}", handler.OrderReceived)
		router.Get("/checkout/order-received/{id}/", handler.OrderReceived)
		router.Post("/api/v1/checkout/orders/{id}/payment", handler.ProcessPayment)
		router.Get("/api/v1/checkout/methods", handler.PaymentMethods)
	})

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	Describe("GET /checkout/order-received/{id}/", func() {
		It("renders the auto-submitting gateway form", func() {
			f.orders.put(1024, order.StatusOnHold)

			rec := get("/checkout/order-received/1024/?key=" + fixtureKey)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/html"))
			Expect(rec.Header().Get("Cache-Control")).To(Equal("no-store"))

			body := rec.Body.String()
			Expect(body).To(ContainSubstring(`action="https://test.ipg-online.com/connect/gateway/processing"`))
			Expect(body).To(ContainSubstring(`name="hash" value="217b2294e1c355a6cf0ac9c8fe22c76712a9c9cce5d621b911116e11bf84c6c3"`))
			Expect(body).To(ContainSubstring(`name="chargetotal" value="49.90"`))
			Expect(body).To(ContainSubstring(`value="PAGAR"`))
			Expect(body).To(ContainSubstring(`.submit()`))
		})

		It("serves the same page without the trailing slash", func() {
			f.orders.put(1024, order.StatusOnHold)

			rec := get("/checkout/order-received/1024?key=" + fixtureKey)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("confirms a successful payment", func() {
			f.orders.put(1024, order.StatusOnHold)

			rec := get("/checkout/order-received/1024/?key=" + fixtureKey + "&ipg_stat=1")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("Muchas gracias por tu pago! Tu orden está siendo procesada"))
			Expect(rec.Body.String()).NotTo(ContainSubstring("<form"))
			Expect(f.orders.status(1024)).To(Equal(order.StatusProcessing))
		})

		It("forbids a wrong key", func() {
			f.orders.put(1024, order.StatusOnHold)

			rec := get("/checkout/order-received/1024/?key=wc_order_guess&ipg_stat=1")
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(rec.Body.String()).NotTo(ContainSubstring("<form"))
			Expect(f.orders.status(1024)).To(Equal(order.StatusOnHold))
		})

		It("returns not found for an unknown order", func() {
			rec := get("/checkout/order-received/77/?key=" + fixtureKey)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("rejects a malformed id", func() {
			rec := get("/checkout/order-received/abc/?key=" + fixtureKey)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /api/v1/checkout/orders/{id}/payment", func() {
		post := func(target, body string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)
			return rec
		}

		It("returns the redirect to the order-received page", func() {
			f.orders.put(1024, order.StatusPending)

			rec := post("/api/v1/checkout/orders/1024/payment", `{"order_key":"`+fixtureKey+`","session_id":"sess-1"}`)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var result checkout.PaymentResult
			Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
			Expect(result.Result).To(Equal("success"))
			Expect(result.Redirect).To(HaveSuffix("/order-received/1024/?key=" + fixtureKey))
		})

		It("requires the order key", func() {
			f.orders.put(1024, order.StatusPending)

			rec := post("/api/v1/checkout/orders/1024/payment", `{"session_id":"sess-1"}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a malformed body", func() {
			rec := post("/api/v1/checkout/orders/1024/payment", `{`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("conflicts on a paid order", func() {
			f.orders.put(1024, order.StatusCompleted)

			rec := post("/api/v1/checkout/orders/1024/payment", `{"order_key":"`+fixtureKey+`"}`)
			Expect(rec.Code).To(Equal(http.StatusConflict))
			Expect(rec.Body.String()).To(ContainSubstring("ORDER_ALREADY_PAID"))
		})
	})

	Describe("GET /api/v1/checkout/methods", func() {
		It("describes the gateway", func() {
			rec := get("/api/v1/checkout/methods")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp checkout.PaymentMethodsResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Methods).To(HaveLen(1))
			Expect(resp.Methods[0].Description).To(Equal("You will be able to pay in the next step"))
		})
	})
})
