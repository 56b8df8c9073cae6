package rest_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	errors "github.com/frahmantamala/ipg-checkout/internal"
	"github.com/frahmantamala/ipg-checkout/internal/auth"
	"github.com/frahmantamala/ipg-checkout/internal/order"
	"github.com/frahmantamala/ipg-checkout/internal/payment"
	"github.com/frahmantamala/ipg-checkout/internal/transport"
	"github.com/frahmantamala/ipg-checkout/internal/transport/rest"
	"github.com/frahmantamala/ipg-checkout/pkg/metrics"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubOrders struct{}

func (stubOrders) GetOrder(_ context.Context, id int64) (*order.Order, error) {
	if id != 7 {
		return nil, errors.ErrOrderNotFound
	}
	return &order.Order{ID: 7, Key: "wc_order_secret", Total: decimal.RequireFromString("10"), Status: order.StatusOnHold}, nil
}

func (stubOrders) GetOrderNotes(_ context.Context, _ int64) ([]order.Note, error) {
	return []order.Note{{ID: 1, Note: "Awaiting offline payment"}}, nil
}

type stubCallbacks struct{}

func (stubCallbacks) RecordCallback(_ context.Context, _ *payment.Callback) error { return nil }

func (stubCallbacks) ListCallbacks(_ context.Context, orderID int64) ([]*payment.Callback, error) {
	return []*payment.Callback{{ID: 1, OrderID: orderID, Flag: "success", Applied: true}}, nil
}

var _ = Describe("Router", func() {
	var (
		router *chi.Mux
		db     *sql.DB
		tokens *auth.JWTTokenGenerator
		m      *metrics.Metrics
	)

	BeforeEach(func() {
		gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		db, err = gormDB.DB()
		Expect(err).NotTo(HaveOccurred())

		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		base := transport.NewBaseHandler(lg)
		tokens = auth.NewJWTTokenGenerator("router-test-secret", time.Hour)
		m = metrics.New()

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, db, rest.Handlers{
			Orders:   order.NewHandler(stubOrders{}, base),
			Payments: payment.NewHandler(stubCallbacks{}, base),
		}, rest.Options{
			Metrics:        m,
			MetricsPath:    "/metrics",
			TokenValidator: tokens,
			Gateway: &rest.GatewayHealth{
				Enabled:  true,
				Sandbox:  true,
				Timezone: "America/Mexico_City",
				Currency: "484",
			},
		}, lg)
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	adminGet := func(target string) *http.Request {
		token, err := tokens.GenerateAdminToken("ops@example.com")
		Expect(err).NotTo(HaveOccurred())
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	It("answers ping and health", func() {
		Expect(serve(httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)).Code).To(Equal(http.StatusOK))

		rec := serve(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components).To(HaveKey("database"))

		gw := resp.Components["gateway"]
		Expect(gw.Status).To(Equal(rest.HealthHealthy))
		Expect(gw.Details).To(HaveKeyWithValue("sandbox", true))
		Expect(gw.Details).To(HaveKeyWithValue("timezone", "America/Mexico_City"))
		Expect(gw.Details).To(HaveKeyWithValue("endpoint", "https://test.ipg-online.com/connect/gateway/processing"))
		Expect(gw.Details).To(HaveKey("merchant_time"))
	})

	It("reports unhealthy when the merchant timezone cannot be resolved", func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		misconfigured := chi.NewRouter()
		rest.RegisterAllRoutes(misconfigured, db, rest.Handlers{}, rest.Options{
			Gateway: &rest.GatewayHealth{Enabled: true, Sandbox: true, Timezone: "Mars/Olympus_Mons", Currency: "484"},
		}, lg)

		rec := httptest.NewRecorder()
		misconfigured.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))

		var resp rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Status).To(Equal(rest.HealthUnhealthy))
		Expect(resp.Components["database"].Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components["gateway"].Status).To(Equal(rest.HealthUnhealthy))
		Expect(resp.Components["gateway"].Message).To(ContainSubstring("timezone"))
	})

	It("reports unhealthy once the database is gone", func() {
		Expect(db.Close()).To(Succeed())

		rec := serve(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("propagates a trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("X-Trace-ID", "trace-123")

		Expect(serve(req).Header().Get("X-Trace-ID")).To(Equal("trace-123"))
	})

	It("serves the openapi document", func() {
		rec := serve(httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("/checkout/orders/{id}/payment"))
	})

	Describe("admin routes", func() {
		It("rejects requests without a bearer token", func() {
			rec := serve(httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/7", nil))
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Body.String()).To(ContainSubstring("TOKEN_MISSING"))
		})

		It("rejects tokens signed with another secret", func() {
			other, err := auth.NewJWTTokenGenerator("other-secret", time.Hour).GenerateAdminToken("ops")
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/7", nil)
			req.Header.Set("Authorization", "Bearer "+other)
			Expect(serve(req).Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns the order without its key", func() {
			rec := serve(adminGet("/api/v1/admin/orders/7"))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"status":"on-hold"`))
			Expect(rec.Body.String()).To(ContainSubstring("Awaiting offline payment"))
			Expect(rec.Body.String()).NotTo(ContainSubstring("wc_order_secret"))
		})

		It("maps a missing order to 404", func() {
			rec := serve(adminGet("/api/v1/admin/orders/8"))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("lists callbacks", func() {
			rec := serve(adminGet("/api/v1/admin/orders/7/callbacks"))
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp payment.CallbackListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.OrderID).To(Equal(int64(7)))
			Expect(resp.Callbacks).To(HaveLen(1))
		})
	})

	It("exposes request metrics", func() {
		serve(httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

		rec := serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("ipg_http_requests_total"))
	})
})
