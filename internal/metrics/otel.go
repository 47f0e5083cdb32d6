package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and an
// optional OTLP exporter. It returns a Recorder, the Prometheus HTTP handler,
// and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "ringboard-service"
	}

	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, nil, err
	}
	promHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	opts := []sdkmetric.Option{sdkmetric.WithReader(promExp)}

	if cfg.OtlpEndpoint != "" {
		otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.OtlpEndpoint)}
		if cfg.OtlpInsecure {
			otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
		}
		otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second))))
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, nil, nil, err
	}
	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	inst, err := newOtelInstruments(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(inst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}
	return rec, promHandler, shutdown, nil
}

type otelInstruments struct {
	ctx              context.Context
	fetchAttempts    metric.Int64Counter
	fetchErrors      metric.Int64Counter
	fetchLatencyMs   metric.Float64Histogram
	feedEvents       metric.Int64Counter
	feedDrops        metric.Int64Counter
	debounceFires    metric.Int64Counter
	pollTriggers     metric.Int64Counter
	applies          metric.Int64Counter
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("ringboard-service")

	fetchAttempts, err := meter.Int64Counter("sync_fetch_attempts_total")
	if err != nil {
		return nil, err
	}
	fetchErrors, err := meter.Int64Counter("sync_fetch_errors_total")
	if err != nil {
		return nil, err
	}
	fetchLatency, err := meter.Float64Histogram("sync_fetch_duration_ms")
	if err != nil {
		return nil, err
	}
	feedEvents, err := meter.Int64Counter("feed_events_total")
	if err != nil {
		return nil, err
	}
	feedDrops, err := meter.Int64Counter("feed_events_dropped_total")
	if err != nil {
		return nil, err
	}
	debounceFires, err := meter.Int64Counter("debounce_fires_total")
	if err != nil {
		return nil, err
	}
	pollTriggers, err := meter.Int64Counter("poll_triggers_total")
	if err != nil {
		return nil, err
	}
	applies, err := meter.Int64Counter("snapshot_applies_total")
	if err != nil {
		return nil, err
	}
	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:              context.Background(),
		fetchAttempts:    fetchAttempts,
		fetchErrors:      fetchErrors,
		fetchLatencyMs:   fetchLatency,
		feedEvents:       feedEvents,
		feedDrops:        feedDrops,
		debounceFires:    debounceFires,
		pollTriggers:     pollTriggers,
		applies:          applies,
		requests:         requests,
		requestLatencyMs: requestLatency,
	}, nil
}

func (o *otelInstruments) recordFetchAttempt(path string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrPath, path))
	o.fetchAttempts.Add(o.ctx, 1, attrs)
	o.fetchLatencyMs.Record(o.ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		o.fetchErrors.Add(o.ctx, 1, attrs)
	}
}

func (o *otelInstruments) recordFeedEvent(entity string, dropped bool) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrEntity, entity))
	o.feedEvents.Add(o.ctx, 1, attrs)
	if dropped {
		o.feedDrops.Add(o.ctx, 1, attrs)
	}
}

func (o *otelInstruments) recordDebounceFire() {
	if o == nil {
		return
	}
	o.debounceFires.Add(o.ctx, 1)
}

func (o *otelInstruments) recordPollTrigger() {
	if o == nil {
		return
	}
	o.pollTriggers.Add(o.ctx, 1)
}

func (o *otelInstruments) recordApply(changed bool) {
	if o == nil {
		return
	}
	o.applies.Add(o.ctx, 1, metric.WithAttributes(attribute.Bool("changed", changed)))
}

func (o *otelInstruments) recordHTTPRequest(method, route string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrMethod, method),
		attribute.String(AttrRoute, route),
		attribute.Int(AttrStatus, status),
	)
	o.requests.Add(o.ctx, 1, attrs)
	o.requestLatencyMs.Record(o.ctx, float64(duration.Milliseconds()), attrs)
}
