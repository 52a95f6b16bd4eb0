package engine

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/roach88/paysim/internal/payment"
	"github.com/roach88/paysim/internal/store"
	"github.com/roach88/paysim/internal/validator"
)

// Engine authorizes payment requests against one account store partition.
//
// Thread-safety model:
//   - Authorize(): safe from any goroutine if the store is
//   - validators are immutable and may be shared between engines
type Engine struct {
	store      store.AccountStore
	validators *validator.Registry
	partition  int

	logger   *slog.Logger
	reporter ErrorReporter
	meter    metric.Meter
	metrics  *Metrics
	locks    *accountLocks // nil unless WithAccountSerialization
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithPartition records the partition this engine serves. It only affects
// logs, error tags and metric attributes.
func WithPartition(partition int) Option {
	return func(e *Engine) {
		e.partition = partition
	}
}

// WithLogger sets the engine logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithErrorReporter sets where swallowed store errors are sent.
// Default: LogErrorReporter on the engine logger.
func WithErrorReporter(r ErrorReporter) Option {
	return func(e *Engine) {
		e.reporter = r
	}
}

// WithMeter sets the meter used for engine metrics.
// Default: the global OpenTelemetry meter provider.
func WithMeter(meter metric.Meter) Option {
	return func(e *Engine) {
		e.meter = meter
	}
}

// WithAccountSerialization makes concurrent requests for the same debtor
// account run one at a time, closing the read-modify-write race.
func WithAccountSerialization() Option {
	return func(e *Engine) {
		e.locks = newAccountLocks()
	}
}

// New creates an Engine over s using the validators in registry.
func New(s store.AccountStore, registry *validator.Registry, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, ErrNilStore
	}
	if registry == nil {
		return nil, ErrNilRegistry
	}

	e := &Engine{
		store:      s,
		validators: registry,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.reporter == nil {
		e.reporter = LogErrorReporter{Logger: e.logger}
	}

	m, err := NewMetrics(e.meter)
	if err != nil {
		return nil, err
	}
	e.metrics = m
	e.logger = e.logger.With("partition", e.partition)

	return e, nil
}

// Partition returns the partition this engine serves.
func (e *Engine) Partition() int {
	return e.partition
}

// Authorize decides a single payment request and applies the debit when
// it is accepted. The returned error is non-nil only for a nil request.
func (e *Engine) Authorize(ctx context.Context, req *payment.MakePaymentRequest) (payment.MakePaymentResult, error) {
	if req == nil {
		return payment.MakePaymentResult{}, ErrNilRequest
	}

	start := time.Now()

	if e.locks != nil {
		unlock := e.locks.lock(req.DebtorAccountID)
		defer unlock()
	}

	result := e.authorize(ctx, *req)
	e.metrics.record(ctx, req.Scheme, result.Outcome, e.partition, time.Since(start))

	return result, nil
}

func (e *Engine) authorize(ctx context.Context, req payment.MakePaymentRequest) payment.MakePaymentResult {
	account := e.loadAccount(ctx, req)

	v, ok := e.validators.Lookup(req.Scheme)
	if !ok {
		e.logger.Debug("unsupported scheme",
			"request_id", req.ID,
			"scheme", req.Scheme.String(),
		)
		return payment.ResultFor(payment.OutcomeUnsupportedScheme)
	}

	// The built-in validators already reject a nil account; the extra check
	// only guards against a custom validator that accepts one.
	if !v.Validate(account, req) || account == nil {
		e.logger.Debug("payment rejected",
			"request_id", req.ID,
			"account", req.DebtorAccountID,
			"scheme", req.Scheme.String(),
			"amount", req.Amount.String(),
		)
		return payment.ResultFor(payment.OutcomeRejected)
	}

	debited := account.Debit(req.Amount)
	if err := e.store.UpdateAccount(ctx, debited); err != nil {
		// The debited copy is dropped; the store keeps its previous value.
		e.capture(ctx, StoreOpUpdate, req, err)
		return payment.ResultFor(payment.OutcomeStoreFailure)
	}

	e.logger.Debug("payment authorized",
		"request_id", req.ID,
		"account", req.DebtorAccountID,
		"scheme", req.Scheme.String(),
		"amount", req.Amount.String(),
		"balance", debited.Balance.String(),
	)
	return payment.ResultFor(payment.OutcomeAuthorized)
}

// loadAccount reads the debtor account. Any failure yields nil, which every
// validator rejects; failures other than not-found are also reported.
func (e *Engine) loadAccount(ctx context.Context, req payment.MakePaymentRequest) *payment.Account {
	acct, err := e.store.GetAccount(ctx, req.DebtorAccountID)
	if err == nil {
		return &acct
	}

	if !errors.Is(err, store.ErrAccountNotFound) {
		e.capture(ctx, StoreOpGet, req, err)
	}
	return nil
}

func (e *Engine) capture(ctx context.Context, op StoreOp, req payment.MakePaymentRequest, err error) {
	storeErr := &StoreError{
		Op:        op,
		AccountID: req.DebtorAccountID,
		RequestID: req.ID,
		Partition: e.partition,
		Err:       err,
	}

	e.logger.Warn("store operation failed",
		"op", string(op),
		"request_id", req.ID,
		"account", req.DebtorAccountID,
		"error", err,
	)

	if e.reporter == nil {
		return
	}
	e.reporter.CaptureException(ctx, storeErr, map[string]string{
		"component":  "engine",
		"operation":  string(op),
		"account_id": req.DebtorAccountID,
		"request_id": req.ID,
		"scheme":     req.Scheme.String(),
		"partition":  strconv.Itoa(e.partition),
	})
}
