package simulation

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/paysim/internal/engine"
	"github.com/roach88/paysim/internal/fixtures"
	"github.com/roach88/paysim/internal/payment"
	"github.com/roach88/paysim/internal/store"
	"github.com/roach88/paysim/internal/validator"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryFactory seeds every partition with the reference accounts.
func memoryFactory() EngineFactory {
	open := func(partition int) (store.AccountStore, io.Closer, error) {
		return store.NewMemoryStore(partition, fixtures.Default()), nil, nil
	}
	return StoreFactory(open, validator.NewRegistry(), engine.WithLogger(discardLogger()))
}

// wrappedFactory lets a test intercept every store call.
func wrappedFactory(wrap func(store.AccountStore) store.AccountStore) EngineFactory {
	open := func(partition int) (store.AccountStore, io.Closer, error) {
		return wrap(store.NewMemoryStore(partition, fixtures.Default())), nil, nil
	}
	return StoreFactory(open, validator.NewRegistry(), engine.WithLogger(discardLogger()))
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// observedStore counts reads and records whether any call saw a
// cancelled context.
type observedStore struct {
	store.AccountStore
	gets      *atomic.Int64
	afterGet  func(n int64)
	cancelled *atomic.Bool
}

func (s *observedStore) GetAccount(ctx context.Context, id string) (payment.Account, error) {
	if ctx.Err() != nil {
		s.cancelled.Store(true)
	}
	n := s.gets.Add(1)
	if s.afterGet != nil {
		s.afterGet(n)
	}
	return s.AccountStore.GetAccount(ctx, id)
}

func (s *observedStore) UpdateAccount(ctx context.Context, acct payment.Account) error {
	if ctx.Err() != nil {
		s.cancelled.Store(true)
	}
	return s.AccountStore.UpdateAccount(ctx, acct)
}

// expectedPerWorker counts sequence numbers 1..total assigned to each of n workers.
func expectedPerWorker(total, n int) map[int]int {
	out := make(map[int]int)
	for seq := 1; seq <= total; seq++ {
		out[Partition(seq, n)]++
	}
	return out
}
