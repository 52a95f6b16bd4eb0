package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/paysim/internal/engine"
	"github.com/roach88/paysim/internal/fixtures"
	"github.com/roach88/paysim/internal/payment"
	"github.com/roach88/paysim/internal/report"
	"github.com/roach88/paysim/internal/simulation"
	"github.com/roach88/paysim/internal/store"
	"github.com/roach88/paysim/internal/validator"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Errors holds the failed assertion messages.
	Errors []string `json:"errors,omitempty"`

	// Report is the final simulation report.
	Report *report.Report `json:"-"`
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Run executes the scenario against fresh memory stores and evaluates
// its assertions. The returned error is non-nil only when the run itself
// could not complete; failed assertions are reported in the Result.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	accounts, err := loadAccounts(s)
	if err != nil {
		return nil, err
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	engineOpts := []engine.Option{engine.WithLogger(quiet)}
	if s.SerializeAccounts {
		engineOpts = append(engineOpts, engine.WithAccountSerialization())
	}

	open := func(partition int) (store.AccountStore, io.Closer, error) {
		return store.NewMemoryStore(partition, accounts), nil, nil
	}
	factory := simulation.StoreFactory(open, validator.NewRegistry(), engineOpts...)

	sim := simulation.NewSimulator(factory,
		simulation.WithSeed(s.Seed),
		simulation.WithWindow(s.Window),
		simulation.WithLogger(quiet),
	)

	rep, err := sim.Run(ctx, s.Workers, s.Transactions)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	result := &Result{Pass: true, Report: rep}
	for _, msg := range EvaluateAssertions(rep, s.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func loadAccounts(s *Scenario) ([]payment.Account, error) {
	if s.Accounts == "" {
		return fixtures.Default(), nil
	}
	accounts, err := fixtures.Load(s.Accounts)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return accounts, nil
}
