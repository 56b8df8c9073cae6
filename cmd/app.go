package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/ipg-checkout/internal"
	"github.com/frahmantamala/ipg-checkout/internal/auth"
	"github.com/frahmantamala/ipg-checkout/internal/cart"
	cartRepo "github.com/frahmantamala/ipg-checkout/internal/cart/postgres"
	"github.com/frahmantamala/ipg-checkout/internal/checkout"
	"github.com/frahmantamala/ipg-checkout/internal/core/events"
	"github.com/frahmantamala/ipg-checkout/internal/ipg"
	"github.com/frahmantamala/ipg-checkout/internal/notification"
	"github.com/frahmantamala/ipg-checkout/internal/order"
	orderRepo "github.com/frahmantamala/ipg-checkout/internal/order/postgres"
	"github.com/frahmantamala/ipg-checkout/internal/payment"
	paymentRepo "github.com/frahmantamala/ipg-checkout/internal/payment/postgres"
	"github.com/frahmantamala/ipg-checkout/internal/transport"
	"github.com/frahmantamala/ipg-checkout/internal/transport/rest"
	"github.com/frahmantamala/ipg-checkout/pkg/metrics"
	"gorm.io/gorm"
)

const adminTokenTTL = 12 * time.Hour

// application holds the wired services shared by the server and the
// maintenance commands.
type application struct {
	EventBus   *events.EventBus
	Metrics    *metrics.Metrics
	Orders     *order.Service
	Carts      *cart.Service
	Payments   *payment.Service
	Dispatcher *notification.Dispatcher
	Checkout   *checkout.Service
	Builder    *ipg.Builder
	Tokens     *auth.JWTTokenGenerator
}

func newApplication(cfg *internal.Config, db *gorm.DB, logger *slog.Logger) (*application, error) {
	builder, err := ipg.NewBuilder(gatewaySettings(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request builder: %w", err)
	}

	m := metrics.New()
	eventBus := events.NewEventBus(logger)

	orderService := order.NewService(orderRepo.NewOrderRepository(db), logger)
	cartService := cart.NewService(cartRepo.NewCartRepository(db), logger)
	paymentService := payment.NewService(paymentRepo.NewCallbackRepository(db), logger)

	dispatcher := notification.NewDispatcher(notification.Config{
		From:       cfg.Notification.From,
		MaxWorkers: cfg.Notification.MaxWorkers,
		QueueSize:  cfg.Notification.QueueSize,
	}, orderService, notification.NewRenderer(cfg.Gateway.Instructions), notification.NewLogMailer(logger), m, logger)

	payment.NewEventHandler(paymentService, logger).RegisterEventHandlers(eventBus)
	notification.NewEventHandler(dispatcher, logger).RegisterEventHandlers(eventBus)

	checkoutService := checkout.NewService(checkout.Settings{
		Enabled:      cfg.Gateway.Enabled,
		Title:        cfg.Gateway.Title,
		Description:  cfg.Gateway.Description,
		Instructions: cfg.Gateway.Instructions,
		CheckoutURL:  cfg.Checkout.URL,
	}, orderService, cartService, dispatcher, builder, eventBus, m, logger)

	return &application{
		EventBus:   eventBus,
		Metrics:    m,
		Orders:     orderService,
		Carts:      cartService,
		Payments:   paymentService,
		Dispatcher: dispatcher,
		Checkout:   checkoutService,
		Builder:    builder,
		Tokens:     auth.NewJWTTokenGenerator(cfg.Security.AdminJWTSecret, adminTokenTTL),
	}, nil
}

func (a *application) handlers(cfg *internal.Config, logger *slog.Logger) rest.Handlers {
	base := transport.NewBaseHandler(logger)
	return rest.Handlers{
		Checkout: checkout.NewHandler(a.Checkout, cfg.Gateway.Title, base),
		Orders:   order.NewHandler(a.Orders, base),
		Payments: payment.NewHandler(a.Payments, base),
	}
}

// close drains the notification queue and waits for in-flight event handlers.
func (a *application) close() {
	a.EventBus.Wait()
	a.Dispatcher.Shutdown()
}

func gatewaySettings(cfg *internal.Config) ipg.Settings {
	return ipg.Settings{
		StoreID:      cfg.Gateway.StoreID,
		SharedSecret: cfg.Gateway.SharedSecret,
		Timezone:     cfg.Gateway.Timezone,
		Currency:     cfg.Gateway.Currency,
		Sandbox:      cfg.Gateway.Sandbox,
		CheckoutURL:  cfg.Checkout.URL,
	}
}
