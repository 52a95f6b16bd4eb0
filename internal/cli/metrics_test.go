package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paysim/internal/engine"
	"github.com/roach88/paysim/internal/fixtures"
	"github.com/roach88/paysim/internal/payment"
	"github.com/roach88/paysim/internal/store"
	"github.com/roach88/paysim/internal/validator"
)

func TestCollectOutcomes(t *testing.T) {
	provider, reader := newMeterProvider()
	defer provider.Shutdown(context.Background())

	eng, err := engine.New(store.NewMemoryStore(0, fixtures.Default()), validator.NewRegistry(),
		engine.WithMeter(provider.Meter("test")),
		engine.WithLogger(newLogger(&RootOptions{}, &bytes.Buffer{})),
	)
	require.NoError(t, err)

	requests := []payment.MakePaymentRequest{
		{ID: "1", DebtorAccountID: "1001", Amount: decimal.NewFromInt(1), Scheme: payment.FasterPayments},
		{ID: "2", DebtorAccountID: "1002", Amount: decimal.NewFromInt(1), Scheme: payment.Bacs},
		{ID: "3", DebtorAccountID: "9999", Amount: decimal.NewFromInt(1), Scheme: payment.Bacs},
	}
	for i := range requests {
		_, err := eng.Authorize(context.Background(), &requests[i])
		require.NoError(t, err)
	}

	totals, err := collectOutcomes(context.Background(), reader)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTotals{"authorized": 2, "rejected": 1}, totals)
}

func TestCollectOutcomes_Empty(t *testing.T) {
	provider, reader := newMeterProvider()
	defer provider.Shutdown(context.Background())

	totals, err := collectOutcomes(context.Background(), reader)
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestOutcomeTotals_Fprint(t *testing.T) {
	var buf bytes.Buffer
	OutcomeTotals{"rejected": 3, "authorized": 7, "store_failure": 1}.Fprint(&buf)
	assert.Equal(t, "Outcomes: authorized=7 rejected=3 store_failure=1\n", buf.String())
}
