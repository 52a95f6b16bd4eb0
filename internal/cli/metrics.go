package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/roach88/paysim/internal/engine"
)

// newMeterProvider returns an in-process meter provider whose readings
// are pulled once a command finishes.
func newMeterProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

// OutcomeTotals counts authorizations by outcome name.
type OutcomeTotals map[string]int64

// collectOutcomes sums the engine's authorization counter by outcome.
func collectOutcomes(ctx context.Context, reader sdkmetric.Reader) (OutcomeTotals, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	totals := OutcomeTotals{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != engine.MetricAuthorizations {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value("outcome")
				totals[outcome.AsString()] += dp.Value
			}
		}
	}
	return totals, nil
}

// Fprint writes "Outcomes: a=1 b=2" with names sorted.
func (t OutcomeTotals) Fprint(w io.Writer) {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, t[name])
	}
	fmt.Fprintf(w, "Outcomes: %s\n", strings.Join(parts, " "))
}
