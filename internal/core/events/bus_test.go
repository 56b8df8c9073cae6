package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/frahmantamala/ipg-checkout/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	})

	It("delivers an event to every subscriber of its type", func() {
		var calls atomic.Int32
		handler := func(context.Context, events.Event) error {
			calls.Add(1)
			return nil
		}
		bus.Subscribe(events.EventTypeOrderOnHold, handler)
		bus.Subscribe(events.EventTypeOrderOnHold, handler)
		bus.Subscribe(events.EventTypeCallbackReceived, handler)

		Expect(bus.Publish(context.Background(), events.NewOrderOnHoldEvent(7, "firstdata_ipg"))).To(Succeed())
		bus.Wait()

		Expect(calls.Load()).To(Equal(int32(2)))
	})

	It("ignores events nobody subscribed to", func() {
		Expect(bus.Publish(context.Background(), events.NewOrderOnHoldEvent(7, "firstdata_ipg"))).To(Succeed())
		bus.Wait()
	})

	It("keeps handlers running after the publishing request is cancelled", func() {
		var cancelled atomic.Bool
		release := make(chan struct{})
		bus.Subscribe(events.EventTypeCallbackReceived, func(ctx context.Context, _ events.Event) error {
			<-release
			cancelled.Store(ctx.Err() != nil)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		Expect(bus.Publish(ctx, events.NewCallbackReceivedEvent(7, "success", "on-hold", "processing", true, "10.0.0.1"))).To(Succeed())
		cancel()
		close(release)
		bus.Wait()

		Expect(cancelled.Load()).To(BeFalse())
	})

	It("stops at the first failing handler when publishing synchronously", func() {
		var second atomic.Bool
		bus.Subscribe(events.EventTypeOrderOnHold, func(context.Context, events.Event) error {
			return errors.New("boom")
		})
		bus.Subscribe(events.EventTypeOrderOnHold, func(context.Context, events.Event) error {
			second.Store(true)
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewOrderOnHoldEvent(7, "firstdata_ipg"))
		Expect(err).To(MatchError(ContainSubstring("boom")))
		Expect(second.Load()).To(BeFalse())
	})

	It("carries the callback outcome on the event", func() {
		e := events.NewCallbackReceivedEvent(7, "fail", "processing", "pending", true, "10.0.0.1")

		Expect(e.EventType()).To(Equal(events.EventTypeCallbackReceived))
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.Payload()).To(HaveKeyWithValue("resulting_status", "pending"))
		Expect(e.RemoteAddr).To(Equal("10.0.0.1"))
	})
})
