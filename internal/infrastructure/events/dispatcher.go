package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"charityconnect/internal/infrastructure/metrics"
)

// Event is anything the dispatcher can route; handlers subscribe by name.
type Event interface {
	EventName() string
}

type Handler func(ctx context.Context, evt Event) error

// Dispatcher runs side-channel work off the request path. Publish never blocks; a full queue drops
// the event. Handler errors are logged and counted, never returned to the publisher.
type Dispatcher struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	timeout  time.Duration
	queue    chan Event
	handlers map[string][]Handler

	mutex   sync.RWMutex
	closed  bool
	started bool
	done    chan struct{}
}

func NewDispatcher(logger *slog.Logger, m *metrics.Metrics, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		logger:   logger,
		metrics:  m,
		timeout:  10 * time.Second,
		queue:    make(chan Event, queueSize),
		handlers: make(map[string][]Handler),
		done:     make(chan struct{}),
	}
}

func (d *Dispatcher) Subscribe(name string, h Handler) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// Publish queues evt and reports whether it was accepted.
func (d *Dispatcher) Publish(evt Event) bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	name := evt.EventName()
	if d.closed {
		d.logger.Warn("Event dropped, dispatcher closed", "event", name)
		d.metrics.EventsDropped.WithLabelValues(name).Inc()
		return false
	}

	select {
	case d.queue <- evt:
		d.metrics.EventsPublished.WithLabelValues(name).Inc()
		return true
	default:
		d.logger.Warn("Event dropped, queue full", "event", name, "capacity", cap(d.queue))
		d.metrics.EventsDropped.WithLabelValues(name).Inc()
		return false
	}
}

// Start runs the worker loop until ctx is cancelled or Close drains the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mutex.Lock()
	if d.started {
		d.mutex.Unlock()
		return
	}
	d.started = true
	d.mutex.Unlock()

	go func() {
		defer close(d.done)
		for {
			select {
			case evt, ok := <-d.queue:
				if !ok {
					return
				}
				d.dispatch(ctx, evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close stops accepting events and waits for queued ones to be handled.
func (d *Dispatcher) Close() {
	d.mutex.Lock()
	if d.closed {
		d.mutex.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mutex.Unlock()

	if started {
		<-d.done
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, evt Event) {
	name := evt.EventName()

	d.mutex.RLock()
	handlers := d.handlers[name]
	d.mutex.RUnlock()

	if len(handlers) == 0 {
		d.logger.Debug("No handler for event", "event", name)
		return
	}

	for _, h := range handlers {
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		err := h(hctx, evt)
		cancel()
		if err != nil {
			d.logger.Error("Event handler failed", "event", name, "error", err)
			d.metrics.EventFailures.WithLabelValues(name).Inc()
		}
	}
}
