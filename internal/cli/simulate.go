package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/paysim/internal/engine"
	"github.com/roach88/paysim/internal/fixtures"
	"github.com/roach88/paysim/internal/payment"
	"github.com/roach88/paysim/internal/report"
	"github.com/roach88/paysim/internal/simulation"
	"github.com/roach88/paysim/internal/store"
	"github.com/roach88/paysim/internal/validator"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	StoreOptions

	Workers           int
	Transactions      int
	Seed              uint64
	Window            time.Duration
	Accounts          string
	SerializeAccounts bool
	ClearScreen       bool
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a concurrent authorization simulation",
		Long: `Generate synthetic payment requests and authorize them concurrently
across a fixed pool of partitioned workers.

Request i is handled by worker i mod N. Progress is reported once per
window and a per-account summary is printed when the run ends. Ctrl-C
stops dispatching, waits for in-flight requests and prints the partial
report.

Examples:
  paysim simulate --workers 8 --transactions 100000
  paysim simulate --seed 42 --store sqlite --db ./paysim.db
  paysim simulate --store redis --redis-addr localhost:6379 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Workers, "workers", "n", runtime.NumCPU(), "number of worker partitions")
	cmd.Flags().IntVarP(&opts.Transactions, "transactions", "t", 10000, "number of payment requests to generate")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "request stream seed (random when unset)")
	cmd.Flags().DurationVar(&opts.Window, "window", simulation.DefaultWindow, "progress aggregation window")
	cmd.Flags().StringVar(&opts.Accounts, "accounts", "", "account fixture (.yaml or .cue); reference accounts when empty")
	cmd.Flags().BoolVar(&opts.SerializeAccounts, "serialize-accounts", false, "run requests for the same debtor one at a time")
	cmd.Flags().BoolVar(&opts.ClearScreen, "clear", false, "clear the terminal before each progress update")

	cmd.Flags().StringVar(&opts.Backend, "store", BackendMemory, "account store backend (memory|sqlite|redis)")
	cmd.Flags().StringVar(&opts.Database, "db", "paysim.db", "SQLite database path (--store sqlite)")
	cmd.Flags().StringVar(&opts.RedisAddr, "redis-addr", "localhost:6379", "Redis address (--store redis)")
	cmd.Flags().DurationVar(&opts.LatencyMin, "latency-min", store.DefaultMinLatency, "minimum simulated store latency (--store memory)")
	cmd.Flags().DurationVar(&opts.LatencyMax, "latency-max", store.DefaultMaxLatency, "maximum simulated store latency (--store memory)")
	cmd.Flags().Float64Var(&opts.FailureRate, "failure-rate", 0, "probability of an injected write failure (--store memory)")

	return cmd
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	accounts, err := loadFixture(opts.Accounts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load accounts", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, opts.StoreOptions, accounts, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer func() {
		if err := backend.close(); err != nil {
			logger.Error("error closing store", "error", err)
		}
	}()

	provider, reader := newMeterProvider()
	defer provider.Shutdown(context.Background())

	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMeter(provider.Meter("paysim")),
	}
	if opts.SerializeAccounts {
		engineOpts = append(engineOpts, engine.WithAccountSerialization())
	}
	factory := simulation.StoreFactory(backend.open, validator.NewRegistry(), engineOpts...)

	simOpts := []simulation.Option{
		simulation.WithWindow(opts.Window),
		simulation.WithLogger(logger),
		simulation.WithReporter(newReporter(opts, cmd, logger)),
	}
	if cmd.Flags().Changed("seed") {
		simOpts = append(simOpts, simulation.WithSeed(opts.Seed))
	}

	sim := simulation.NewSimulator(factory, simOpts...)
	_, runErr := sim.Run(ctx, opts.Workers, opts.Transactions)

	switch {
	case runErr == nil:
	case simulation.IsContractViolation(runErr):
		return WrapExitError(ExitCommandError, "invalid simulation parameters", runErr)
	case errors.Is(runErr, context.Canceled):
		logger.Info("simulation interrupted")
	default:
		return WrapExitError(ExitCommandError, "simulation failed", runErr)
	}

	totals, err := collectOutcomes(context.Background(), reader)
	if err != nil {
		logger.Warn("metrics unavailable", "error", err)
		return nil
	}
	logger.Debug("authorization outcomes", "totals", map[string]int64(totals))
	if opts.Format == "json" {
		// One more JSON line after the reporter's progress and final events.
		return json.NewEncoder(cmd.OutOrStdout()).Encode(struct {
			Event  string        `json:"event"`
			Counts OutcomeTotals `json:"counts"`
		}{Event: "outcomes", Counts: totals})
	}
	totals.Fprint(cmd.OutOrStdout())
	return nil
}

func newReporter(opts *SimulateOptions, cmd *cobra.Command, logger *slog.Logger) report.Reporter {
	if opts.Format == "json" {
		return report.NewJSONReporter(cmd.OutOrStdout(), report.WithLogger(logger))
	}
	var textOpts []report.TextOption
	if opts.ClearScreen {
		textOpts = append(textOpts, report.WithClearScreen())
	}
	return report.NewTextReporter(cmd.OutOrStdout(), textOpts...)
}

// loadFixture returns the reference accounts when path is empty.
func loadFixture(path string) ([]payment.Account, error) {
	if path == "" {
		return fixtures.Default(), nil
	}
	accounts, err := fixtures.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return accounts, nil
}
