package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	errors "github.com/frahmantamala/ipg-checkout/internal"
	"github.com/frahmantamala/ipg-checkout/internal/order"
	"github.com/frahmantamala/ipg-checkout/pkg/metrics"
)

const sendTimeout = 10 * time.Second

type OrderLoader interface {
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
}

type Config struct {
	From       string
	MaxWorkers int
	QueueSize  int
}

// Dispatcher delivers notifications on a bounded worker pool. Trigger never
// blocks: a full queue is reported to the caller.
type Dispatcher struct {
	from     string
	orders   OrderLoader
	renderer *Renderer
	mailer   Mailer
	metrics  *metrics.Metrics
	logger   *slog.Logger

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	dispatchWg sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(cfg Config, orders OrderLoader, renderer *Renderer, mailer Mailer, m *metrics.Metrics, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	d := &Dispatcher{
		from:     cfg.From,
		orders:   orders,
		renderer: renderer,
		mailer:   mailer,
		metrics:  m,
		logger:   logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan Job, queueSize),
		workerPool: make(chan chan Job, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	for i := 0; i < d.maxWorkers; i++ {
		worker := NewWorker(i, d.workerPool, d.logger)
		worker.Start(d.ctx, &d.wg, d.process)
	}

	d.dispatchWg.Add(1)
	go d.dispatch()

	d.logger.Info("notification worker pool started",
		"max_workers", d.maxWorkers,
		"queue_size", cap(d.jobQueue))

	return d
}

// Trigger queues template for the order.
func (d *Dispatcher) Trigger(ctx context.Context, template string, orderID int64) error {
	if !d.renderer.Has(template) {
		return errors.ErrUnknownTemplate
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return errors.ErrNotificationDispatcher
	}

	job := Job{Template: template, OrderID: orderID, EnqueuedAt: time.Now()}
	select {
	case d.jobQueue <- job:
		d.logger.Debug("notification queued",
			"template", template,
			"order_id", orderID,
			"queue_length", len(d.jobQueue))
		return nil
	default:
		d.logger.Warn("notification queue full",
			"template", template,
			"order_id", orderID,
			"queue_capacity", cap(d.jobQueue))
		d.metrics.NotificationSent(template, "dropped")
		return errors.ErrNotificationQueueFull
	}
}

// dispatch hands queued jobs to idle workers until the queue is closed.
func (d *Dispatcher) dispatch() {
	defer d.dispatchWg.Done()

	for job := range d.jobQueue {
		jobChannel := <-d.workerPool
		jobChannel <- job
	}
}

// Shutdown stops accepting jobs, delivers what is already queued and waits
// for the workers to finish.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobQueue)
	d.mu.Unlock()

	d.logger.Info("shutting down notification dispatcher", "pending", len(d.jobQueue))
	d.dispatchWg.Wait()
	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
}

func (d *Dispatcher) process(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.Send(ctx, job.Template, job.OrderID); err != nil {
		d.logger.Error("notification delivery failed",
			"error", err,
			"template", job.Template,
			"order_id", job.OrderID,
			"queued_for", time.Since(job.EnqueuedAt))
	}
}

// Send renders and delivers synchronously, bypassing the queue.
func (d *Dispatcher) Send(ctx context.Context, template string, orderID int64) error {
	o, err := d.orders.GetOrder(ctx, orderID)
	if err != nil {
		d.metrics.NotificationSent(template, "failed")
		return err
	}

	msg, err := d.renderer.Render(template, o)
	if err != nil {
		d.metrics.NotificationSent(template, "failed")
		return err
	}
	msg.From = d.from

	if err := d.mailer.Send(ctx, msg); err != nil {
		d.metrics.NotificationSent(template, "failed")
		return err
	}

	d.metrics.NotificationSent(template, "sent")
	d.logger.Info("notification sent", "template", template, "order_id", orderID)
	return nil
}
