package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/ipg-checkout/api"
	"github.com/frahmantamala/ipg-checkout/internal/checkout"
	"github.com/frahmantamala/ipg-checkout/internal/order"
	"github.com/frahmantamala/ipg-checkout/internal/payment"
	"github.com/frahmantamala/ipg-checkout/internal/transport/middleware"
	"github.com/frahmantamala/ipg-checkout/internal/transport/swagger"
	"github.com/frahmantamala/ipg-checkout/pkg/metrics"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the domain handlers mounted by RegisterAllRoutes. Nil
// handlers leave their routes unregistered.
type Handlers struct {
	Checkout *checkout.Handler
	Orders   *order.Handler
	Payments *payment.Handler
}

type Options struct {
	Metrics        *metrics.Metrics
	MetricsPath    string
	TokenValidator middleware.TokenValidator
	// Gateway adds a gateway component to the health report when set.
	Gateway *GatewayHealth
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, handlers Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, opts.Gateway)

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}
	router.Use(middleware.Session)

	// OpenAPI document at root (outside API prefix)
	router.Method("GET", "/openapi.yml", api.Handler())
	router.Handle("/swagger/*", swagger.Handler())

	if opts.Metrics != nil && opts.MetricsPath != "" {
		router.Method("GET", opts.MetricsPath, opts.Metrics.Handler())
	}

	// Thank-you page the gateway redirects the buyer back to
	if handlers.Checkout != nil {
		router.Get("/checkout/order-received/{id}", handlers.Checkout.OrderReceived)
		router.Get("/checkout/order-received/{id}/", handlers.Checkout.OrderReceived)
	}

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if handlers.Checkout != nil {
			r.Route("/checkout", func(cr chi.Router) {
				cr.Get("/methods", handlers.Checkout.PaymentMethods)
				cr.Post("/orders/{id}/payment", handlers.Checkout.ProcessPayment)
			})
		}

		if opts.TokenValidator == nil {
			return
		}

		// Back-office routes
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.AdminAuth(opts.TokenValidator, logger))

			if handlers.Orders != nil {
				ar.Get("/orders/{id}", handlers.Orders.GetOrder)
			}
			if handlers.Payments != nil {
				ar.Get("/orders/{id}/callbacks", handlers.Payments.ListCallbacks)
			}
		})
	})
}
