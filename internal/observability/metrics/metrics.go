package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	AuthRequestsTotal   metric.Int64Counter
	PlaceSearchTotal    metric.Int64Counter
	MapViewsTotal       metric.Int64Counter
	LikeTogglesTotal    metric.Int64Counter
	PurchasesTotal      metric.Int64Counter
	WebhookEventsTotal  metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments only once, using
// the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("machimap")
		m := &AppMetrics{}

		m.HTTPRequestsTotal = mustCounter(meter, "http_requests_total",
			"Total number of HTTP requests completed", "{request}")
		m.AuthRequestsTotal = mustCounter(meter, "auth_requests_total",
			"Total number of authentication requests", "{request}")
		m.PlaceSearchTotal = mustCounter(meter, "place_search_requests_total",
			"Total number of place search requests", "{request}")
		m.MapViewsTotal = mustCounter(meter, "map_views_total",
			"Total number of map view events", "{view}")
		m.LikeTogglesTotal = mustCounter(meter, "like_toggles_total",
			"Total number of like toggle operations", "{toggle}")
		m.PurchasesTotal = mustCounter(meter, "purchases_total",
			"Total number of completed purchases", "{purchase}")
		m.WebhookEventsTotal = mustCounter(meter, "webhook_events_total",
			"Total number of payment webhook events received", "{event}")

		var err error
		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global metrics instance, or nil when InitAppMetrics has
// not run.
func Get() *AppMetrics {
	return appMetrics
}

func mustCounter(meter metric.Meter, name, desc, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	)
	if err != nil {
		log.Fatalf("Metrics: Failed to create %s: %v", name, err)
	}
	return c
}
