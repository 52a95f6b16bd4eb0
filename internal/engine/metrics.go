package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/roach88/paysim/internal/payment"
)

const instrumentationName = "github.com/roach88/paysim/internal/engine"

// Metric names.
const (
	MetricAuthorizations        = "paysim.authorizations"
	MetricAuthorizationDuration = "paysim.authorization.duration"
)

// Metrics holds the engine's OpenTelemetry instruments.
type Metrics struct {
	authorizations metric.Int64Counter
	duration       metric.Float64Histogram
}

// NewMetrics creates the engine instruments on meter. A nil meter uses the
// global meter provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	authorizations, err := meter.Int64Counter(MetricAuthorizations,
		metric.WithUnit("1"),
		metric.WithDescription("Authorization attempts by scheme and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricAuthorizations, err)
	}

	duration, err := meter.Float64Histogram(MetricAuthorizationDuration,
		metric.WithUnit("ms"),
		metric.WithDescription("Authorization latency including store I/O"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricAuthorizationDuration, err)
	}

	return &Metrics{authorizations: authorizations, duration: duration}, nil
}

func (m *Metrics) record(ctx context.Context, scheme payment.PaymentScheme, outcome payment.Outcome, partition int, elapsed time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("scheme", scheme.String()),
		attribute.String("outcome", outcome.String()),
		attribute.Int("partition", partition),
	)
	m.authorizations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}
