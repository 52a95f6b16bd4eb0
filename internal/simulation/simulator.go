package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/roach88/paysim/internal/report"
)

// DefaultWindow is how often buffered outcomes are folded and reported.
const DefaultWindow = 500 * time.Millisecond

// Simulator runs synthetic load against a pool of engines.
type Simulator struct {
	factory  EngineFactory
	window   time.Duration
	seed     *uint64
	gen      *Generator
	logger   *slog.Logger
	reporter report.Reporter
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithWindow sets the aggregation window. Non-positive values keep the
// default.
func WithWindow(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithSeed fixes the request stream. Without it every Run draws a fresh
// random seed and logs it.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.seed = &seed
	}
}

// WithGenerator supplies the request generator directly. It takes
// precedence over WithSeed and continues its stream across runs.
func WithGenerator(g *Generator) Option {
	return func(s *Simulator) {
		s.gen = g
	}
}

// WithLogger sets the simulator logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReporter sets the progress and final reporter. Default: report.NopReporter.
func WithReporter(r report.Reporter) Option {
	return func(s *Simulator) {
		if r != nil {
			s.reporter = r
		}
	}
}

// NewSimulator returns a simulator building its engines with factory.
func NewSimulator(factory EngineFactory, opts ...Option) *Simulator {
	s := &Simulator{
		factory:  factory,
		window:   DefaultWindow,
		logger:   slog.Default(),
		reporter: report.NopReporter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run dispatches transactions requests over workers partitions and
// returns the final report.
//
// Every dispatched request is attempted exactly once. When ctx is
// cancelled, dispatch stops, requests already in flight complete and are
// recorded, and Run returns the partial report together with ctx.Err().
// The reporter receives exactly one Final call per successful start.
func (s *Simulator) Run(ctx context.Context, workers, transactions int) (*report.Report, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, workers)
	}
	if transactions < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTransactionCount, transactions)
	}

	pool, err := NewPool(workers, s.factory)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := pool.Close(); err != nil {
			s.logger.Warn("closing worker pool", "error", err)
		}
	}()

	gen := s.generator()
	start := time.Now()
	s.logger.Info("simulation started",
		"workers", workers,
		"transactions", transactions,
		"window", s.window,
	)

	outcomes := make(chan Outcome, workers)
	agg := NewAggregator(transactions)
	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		s.aggregate(agg, outcomes)
	}()

	dispatched := s.dispatch(ctx, pool, gen, transactions, outcomes)

	close(outcomes)
	<-aggDone

	rep := agg.Report()
	s.logger.Info("simulation finished",
		"dispatched", dispatched,
		"recorded", rep.Recorded(),
		"workers_observed", len(rep.Workers),
		"elapsed", time.Since(start),
	)

	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}

// dispatch generates and launches requests until transactions have been
// dispatched or ctx is cancelled, then waits for every launched request.
func (s *Simulator) dispatch(ctx context.Context, pool *Pool, gen *Generator, transactions int, out chan<- Outcome) int {
	// In-flight calls are not interrupted by cancellation.
	callCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	dispatched := 0
	for seq := 1; seq <= transactions; seq++ {
		if ctx.Err() != nil {
			s.logger.Info("simulation cancelled, draining in-flight requests",
				"dispatched", dispatched,
				"remaining", transactions-dispatched,
			)
			break
		}

		req := gen.Next()
		w := pool.For(seq)
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := w.Engine.Authorize(callCtx, &req)
			if err != nil {
				// Only a nil request fails here; record it as unsuccessful.
				s.logger.Error("authorize", "seq", seq, "error", err)
			}
			out <- Outcome{
				Seq:       seq,
				Worker:    w.Partition,
				AccountID: req.DebtorAccountID,
				Scheme:    req.Scheme,
				Result:    res,
			}
		}()
		dispatched++
	}

	wg.Wait()
	return dispatched
}

// aggregate owns agg until out is closed. Every window tick produces one
// Progress call, including windows in which nothing completed. The
// trailing partial window is reported only if it folded something.
func (s *Simulator) aggregate(agg *Aggregator, out <-chan Outcome) {
	ticker := time.NewTicker(s.window)
	defer ticker.Stop()

	for {
		select {
		case o, ok := <-out:
			if !ok {
				if agg.Fold() > 0 {
					s.reporter.Progress(agg.Snapshot())
				}
				s.reporter.Final(agg.Snapshot())
				return
			}
			agg.Add(o)
		case <-ticker.C:
			agg.Fold()
			s.reporter.Progress(agg.Snapshot())
		}
	}
}

func (s *Simulator) generator() *Generator {
	if s.gen != nil {
		return s.gen
	}

	var seed uint64
	if s.seed != nil {
		seed = *s.seed
	} else {
		seed = rand.Uint64()
	}
	s.logger.Info("simulation seed", "seed", seed)
	return NewGenerator(seed)
}

// IsContractViolation reports whether err is a caller error detected
// before any work started.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrInvalidWorkerCount) || errors.Is(err, ErrInvalidTransactionCount)
}
