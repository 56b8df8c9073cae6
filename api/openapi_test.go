package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/ipg-checkout/api"
)

var _ = Describe("OpenAPI document", func() {
	It("loads and validates", func() {
		doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Info.Title).To(Equal("IPG Checkout API"))
	})

	It("documents the checkout and admin routes", func() {
		doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		for _, path := range []string{
			"/checkout/methods",
			"/checkout/orders/{id}/payment",
			"/admin/orders/{id}",
			"/admin/orders/{id}/callbacks",
		} {
			Expect(doc.Paths.Value(path)).NotTo(BeNil(), path)
		}
		Expect(doc.Paths.Value("/checkout/orders/{id}/payment").Post).NotTo(BeNil())
	})

	It("serves the yaml", func() {
		rec := httptest.NewRecorder()
		api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/yaml"))
		Expect(rec.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
	})
})
