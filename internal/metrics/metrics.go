package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

const InstrumentationName = "sportsnews"

var (
	methodKey   = attribute.Key("http.method")
	routeKey    = attribute.Key("http.route")
	statusKey   = attribute.Key("http.status_code")
	endpointKey = attribute.Key("upstream.endpoint")
	outcomeKey  = attribute.Key("upstream.outcome")
)

// NewExporter installs a prometheus backed meter provider as the global
// provider and returns the exporter, which doubles as the /metrics handler.
func NewExporter() (*prometheus.Exporter, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)

	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, fmt.Errorf("initialize prometheus exporter: %w", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	return exporter, nil
}

// Metrics holds the instruments recorded by the HTTP layer and the
// football-data client.
type Metrics struct {
	completed       metric.Int64Counter
	upstreamCount   metric.Int64Counter
	upstreamLatency metric.Float64ValueRecorder
}

func New(meter metric.Meter) *Metrics {
	must := metric.Must(meter)

	return &Metrics{
		completed: must.NewInt64Counter(
			"http/server/completed_count",
			metric.WithDescription("Count of completed requests, by HTTP method, route and response status"),
		),
		upstreamCount: must.NewInt64Counter(
			"football/upstream/request_count",
			metric.WithDescription("Count of football-data requests, by endpoint and outcome"),
		),
		upstreamLatency: must.NewFloat64ValueRecorder(
			"football/upstream/latency_ms",
			metric.WithDescription("Latency of football-data requests in milliseconds"),
		),
	}
}

// Default builds instruments on the global meter provider.
func Default() *Metrics {
	return New(global.Meter(InstrumentationName))
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.completed.Add(r.Context(), 1,
			methodKey.String(r.Method),
			routeKey.String(route),
			statusKey.String(strconv.Itoa(status)),
		)
	})
}

// ObserveUpstream records one football-data round trip.
func (m *Metrics) ObserveUpstream(ctx context.Context, endpoint, outcome string, elapsed time.Duration) {
	labels := []attribute.KeyValue{endpointKey.String(endpoint), outcomeKey.String(outcome)}
	m.upstreamCount.Add(ctx, 1, labels...)
	m.upstreamLatency.Record(ctx, float64(elapsed)/float64(time.Millisecond), labels...)
}
