package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests can build as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	MessagesSent         *prometheus.CounterVec
	MessagesMarkedRead   prometheus.Counter
	ConversationListings prometheus.Histogram
	EventsPublished      *prometheus.CounterVec
	EventsDropped        *prometheus.CounterVec
	EventFailures        *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charityconnect",
			Name:      "messages_sent_total",
			Help:      "Ledger messages created, by sender and recipient role.",
		}, []string{"from_model", "to_model"}),
		MessagesMarkedRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "charityconnect",
			Name:      "messages_marked_read_total",
			Help:      "Ledger messages flipped to read.",
		}),
		ConversationListings: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "charityconnect",
			Name:      "conversation_listing_size",
			Help:      "Conversations returned per listing.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charityconnect",
			Name:      "events_published_total",
			Help:      "Side-channel events accepted by the dispatcher.",
		}, []string{"event"}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charityconnect",
			Name:      "events_dropped_total",
			Help:      "Side-channel events dropped because the queue was full or closed.",
		}, []string{"event"}),
		EventFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charityconnect",
			Name:      "event_handler_failures_total",
			Help:      "Side-channel event handlers that returned an error.",
		}, []string{"event"}),
	}

	m.registry.MustRegister(
		m.MessagesSent,
		m.MessagesMarkedRead,
		m.ConversationListings,
		m.EventsPublished,
		m.EventsDropped,
		m.EventFailures,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
