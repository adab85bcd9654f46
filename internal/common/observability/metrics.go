package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability exposes the remote-attempt telemetry hook through an OpenTelemetry
// meter. Failure rates are diagnosable from `gateway.remote.attempts{outcome!="success"}`.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	attempts      otelmetric.Int64Counter
	duration      otelmetric.Float64Histogram
}

// New builds a meter provider exporting through prometheus. On exporter failure it
// returns a no-op Observability and the error.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}
	return NewWithReader(serviceName, exporter), nil
}

// NewWithReader builds the instruments on top of an arbitrary metric reader.
func NewWithReader(serviceName string, reader metric.Reader) *Observability {
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	attempts, _ := meter.Int64Counter(
		"gateway.remote.attempts",
		otelmetric.WithDescription("Remote AI attempts by capability and outcome"),
	)

	duration, _ := meter.Float64Histogram(
		"gateway.remote.duration",
		otelmetric.WithDescription("Remote AI attempt duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		attempts:      attempts,
		duration:      duration,
	}
}

func (o *Observability) RecordAttempt(ctx context.Context, capability, outcome string, d time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("capability", capability),
		attribute.String("outcome", outcome),
	)
	if o.attempts != nil {
		o.attempts.Add(ctx, 1, attrs)
	}
	if o.duration != nil {
		o.duration.Record(ctx, float64(d.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
