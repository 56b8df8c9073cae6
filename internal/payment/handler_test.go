package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/ipg-checkout/internal/core/events"
	paymentpkg "github.com/frahmantamala/ipg-checkout/internal/payment"
	"github.com/frahmantamala/ipg-checkout/internal/transport"
)

type mockPaymentService struct {
	mu        sync.Mutex
	recorded  []*paymentpkg.Callback
	listError error
}

func (m *mockPaymentService) RecordCallback(_ context.Context, cb *paymentpkg.Callback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, cb)
	return nil
}

func (m *mockPaymentService) ListCallbacks(_ context.Context, orderID int64) ([]*paymentpkg.Callback, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*paymentpkg.Callback
	for _, cb := range m.recorded {
		if cb.OrderID == orderID {
			out = append(out, cb)
		}
	}
	return out, nil
}

func (m *mockPaymentService) Recorded() []*paymentpkg.Callback {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*paymentpkg.Callback(nil), m.recorded...)
}

var _ = ginkgo.Describe("Payment callbacks", func() {
	var (
		service *mockPaymentService
		logger  *slog.Logger
		router  chi.Router
	)

	ginkgo.BeforeEach(func() {
		service = &mockPaymentService{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		handler := paymentpkg.NewHandler(service, transport.NewBaseHandler(logger))
		router = chi.NewRouter()
		router.Get("/api/v1/admin/orders/{id}/callbacks", handler.ListCallbacks)
	})

	ginkgo.Describe("EventHandler", func() {
		ginkgo.It("audits every callback event", func() {
			bus := events.NewEventBus(logger)
			paymentpkg.NewEventHandler(service, logger).RegisterEventHandlers(bus)

			gomega.Expect(bus.Publish(context.Background(),
				events.NewCallbackReceivedEvent(1024, "success", "on-hold", "processing", true, "203.0.113.7"))).To(gomega.Succeed())
			gomega.Expect(bus.Publish(context.Background(),
				events.NewCallbackReceivedEvent(1024, "success", "processing", "processing", false, "203.0.113.7"))).To(gomega.Succeed())
			bus.Wait()

			recorded := service.Recorded()
			gomega.Expect(recorded).To(gomega.HaveLen(2))
			gomega.Expect(recorded[0].RemoteAddr).To(gomega.Equal("203.0.113.7"))
		})

		ginkgo.It("rejects foreign events", func() {
			handler := paymentpkg.NewEventHandler(service, logger)
			err := handler.HandleCallbackReceived(context.Background(), events.NewOrderOnHoldEvent(1, "firstdata_ipg"))
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("ListCallbacks", func() {
		ginkgo.It("returns the audit log for the order", func() {
			_ = service.RecordCallback(context.Background(), &paymentpkg.Callback{OrderID: 1024, Flag: "fail"})
			_ = service.RecordCallback(context.Background(), &paymentpkg.Callback{OrderID: 7, Flag: "success"})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/1024/callbacks", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var resp paymentpkg.CallbackListResponse
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp.OrderID).To(gomega.Equal(int64(1024)))
			gomega.Expect(resp.Callbacks).To(gomega.HaveLen(1))
			gomega.Expect(resp.Callbacks[0].Flag).To(gomega.Equal("fail"))
		})

		ginkgo.It("rejects a malformed order id", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/abc/callbacks", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("hides internal failures", func() {
			service.listError = errors.New("connection reset")

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/1024/callbacks", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
			gomega.Expect(rec.Body.String()).NotTo(gomega.ContainSubstring("connection reset"))
		})
	})
})
