package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/roach88/paysim/internal/payment"
	"github.com/roach88/paysim/internal/store"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func hasAttribute(attrs attribute.Set, key, value string) bool {
	v, ok := attrs.Value(attribute.Key(key))
	return ok && v.Emit() == value
}

func TestMetrics_RecordsOutcomes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	s := store.NewMemoryStore(0, []payment.Account{acct(200, payment.Live, payment.Bacs)})
	e := newTestEngine(t, s, WithMeter(provider.Meter("test")), WithPartition(1))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := e.Authorize(ctx, req(payment.Bacs, 10))
		require.NoError(t, err)
	}
	_, err := e.Authorize(ctx, req(payment.Chaps, 10))
	require.NoError(t, err)

	rm := collect(t, reader)

	counter := findMetric(rm, MetricAuthorizations)
	require.NotNil(t, counter)
	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64], got %T", counter.Data)

	var authorized, rejected int64
	for _, dp := range sum.DataPoints {
		assert.True(t, hasAttribute(dp.Attributes, "partition", "1"))
		switch {
		case hasAttribute(dp.Attributes, "outcome", "authorized"):
			assert.True(t, hasAttribute(dp.Attributes, "scheme", "Bacs"))
			authorized += dp.Value
		case hasAttribute(dp.Attributes, "outcome", "rejected"):
			assert.True(t, hasAttribute(dp.Attributes, "scheme", "Chaps"))
			rejected += dp.Value
		}
	}
	assert.Equal(t, int64(2), authorized)
	assert.Equal(t, int64(1), rejected)

	hist := findMetric(rm, MetricAuthorizationDuration)
	require.NotNil(t, hist)
	h, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected Histogram[float64], got %T", hist.Data)

	var count uint64
	for _, dp := range h.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.record(context.Background(), payment.Bacs, payment.OutcomeAuthorized, 0, 0)
	})
}
