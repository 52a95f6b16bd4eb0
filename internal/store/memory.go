package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/roach88/paysim/internal/payment"
)

// Default simulated I/O latency bounds for the reference mock.
const (
	DefaultMinLatency = 2 * time.Millisecond
	DefaultMaxLatency = 5 * time.Millisecond
)

// MemoryStore is an in-memory AccountStore for one partition.
//
// Thread-safety: all methods are safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	partition int
	accounts  map[string]payment.Account

	minLatency  time.Duration
	maxLatency  time.Duration
	failureRate float64
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithLatency makes every operation sleep for a duration drawn uniformly
// from [lo, hi). A zero or negative hi disables the delay.
func WithLatency(lo, hi time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		lo = max(lo, 0)
		hi = max(hi, lo)
		s.minLatency = lo
		s.maxLatency = hi
	}
}

// WithFailureRate makes UpdateAccount fail with ErrInjectedFault with the
// given probability (0 disables, 1 fails every write).
func WithFailureRate(rate float64) MemoryOption {
	return func(s *MemoryStore) {
		switch {
		case rate < 0:
			rate = 0
		case rate > 1:
			rate = 1
		}
		s.failureRate = rate
	}
}

// NewMemoryStore creates a store for partition seeded with a private copy
// of accounts. Later seeds with the same id replace earlier ones.
func NewMemoryStore(partition int, accounts []payment.Account, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		partition: partition,
		accounts:  make(map[string]payment.Account, len(accounts)),
	}
	for _, acct := range accounts {
		s.accounts[acct.ID] = acct
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Partition returns the partition id this store serves.
func (s *MemoryStore) Partition() int {
	return s.partition
}

// GetAccount implements AccountStore.
func (s *MemoryStore) GetAccount(ctx context.Context, id string) (payment.Account, error) {
	if err := s.simulateIO(ctx); err != nil {
		return payment.Account{}, err
	}

	s.mu.RLock()
	acct, ok := s.accounts[id]
	s.mu.RUnlock()

	if !ok {
		return payment.Account{}, fmt.Errorf("get account %s: %w", id, ErrAccountNotFound)
	}
	return acct, nil
}

// UpdateAccount implements AccountStore.
func (s *MemoryStore) UpdateAccount(ctx context.Context, acct payment.Account) error {
	if err := s.simulateIO(ctx); err != nil {
		return err
	}

	if s.failureRate > 0 && rand.Float64() < s.failureRate {
		return fmt.Errorf("update account %s: %w", acct.ID, ErrInjectedFault)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[acct.ID]; !ok {
		return fmt.Errorf("update account %s: %w", acct.ID, ErrAccountNotFound)
	}
	s.accounts[acct.ID] = acct
	return nil
}

// Accounts returns a snapshot of every account ordered by id.
func (s *MemoryStore) Accounts() []payment.Account {
	s.mu.RLock()
	out := make([]payment.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		out = append(out, acct)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// simulateIO sleeps for the configured latency, returning early if ctx ends.
func (s *MemoryStore) simulateIO(ctx context.Context) error {
	if s.maxLatency <= 0 {
		return nil
	}

	d := s.minLatency
	if span := s.maxLatency - s.minLatency; span > 0 {
		d += rand.N(span)
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
