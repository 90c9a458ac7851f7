package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts message traffic between watch and companion. A nil
// *Collector is valid and records nothing.
type Collector struct {
	outboxSent     prometheus.Counter
	outboxFailed   *prometheus.CounterVec
	inboxReceived  prometheus.Counter
	inboxDropped   *prometheus.CounterVec
	weatherUpdates *prometheus.CounterVec
	fetchErrors    prometheus.Counter
	replies        prometheus.Counter
}

func NewCollector() *Collector {
	return &Collector{
		outboxSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "watchface_outbox_sent_total",
			Help: "Messages sent from the outbox",
		}),
		outboxFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "watchface_outbox_failed_total",
			Help: "Outbox sends that failed, by reason",
		}, []string{"reason"}),
		inboxReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "watchface_inbox_received_total",
			Help: "Messages received in the inbox",
		}),
		inboxDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "watchface_inbox_dropped_total",
			Help: "Inbound messages dropped, by reason",
		}, []string{"reason"}),
		weatherUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "watchface_weather_updates_total",
			Help: "Inbound weather messages, applied or ignored",
		}, []string{"result"}),
		fetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "watchface_companion_fetch_errors_total",
			Help: "Weather provider fetches that failed in the companion",
		}),
		replies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "watchface_companion_replies_total",
			Help: "Weather readings sent by the companion",
		}),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.outboxSent.Describe(ch)
	c.outboxFailed.Describe(ch)
	c.inboxReceived.Describe(ch)
	c.inboxDropped.Describe(ch)
	c.weatherUpdates.Describe(ch)
	c.fetchErrors.Describe(ch)
	c.replies.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.outboxSent.Collect(ch)
	c.outboxFailed.Collect(ch)
	c.inboxReceived.Collect(ch)
	c.inboxDropped.Collect(ch)
	c.weatherUpdates.Collect(ch)
	c.fetchErrors.Collect(ch)
	c.replies.Collect(ch)
}

func (c *Collector) OutboxSent() {
	if c != nil {
		c.outboxSent.Inc()
	}
}

func (c *Collector) OutboxFailed(reason string) {
	if c != nil {
		c.outboxFailed.WithLabelValues(reason).Inc()
	}
}

func (c *Collector) InboxReceived() {
	if c != nil {
		c.inboxReceived.Inc()
	}
}

func (c *Collector) InboxDropped(reason string) {
	if c != nil {
		c.inboxDropped.WithLabelValues(reason).Inc()
	}
}

func (c *Collector) WeatherUpdate(result string) {
	if c != nil {
		c.weatherUpdates.WithLabelValues(result).Inc()
	}
}

func (c *Collector) FetchError() {
	if c != nil {
		c.fetchErrors.Inc()
	}
}

func (c *Collector) Reply() {
	if c != nil {
		c.replies.Inc()
	}
}

// Serve exposes the registry at /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, registry *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
