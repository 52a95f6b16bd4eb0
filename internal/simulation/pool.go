package simulation

import (
	"errors"
	"fmt"
	"io"

	"github.com/roach88/paysim/internal/engine"
	"github.com/roach88/paysim/internal/store"
	"github.com/roach88/paysim/internal/validator"
)

var (
	// ErrInvalidWorkerCount is returned for a worker count below 1.
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")

	// ErrInvalidTransactionCount is returned for a negative transaction count.
	ErrInvalidTransactionCount = errors.New("transaction count must not be negative")
)

// EngineFactory builds the engine for one partition. The returned closer,
// if non-nil, is closed by Pool.Close.
type EngineFactory func(partition int) (*engine.Engine, io.Closer, error)

// StoreOpener returns the account store for one partition and an
// optional closer for it.
type StoreOpener func(partition int) (store.AccountStore, io.Closer, error)

// StoreFactory builds engines over the stores returned by open. All
// engines share registry; each gets opts plus its own partition.
func StoreFactory(open StoreOpener, registry *validator.Registry, opts ...engine.Option) EngineFactory {
	return func(partition int) (*engine.Engine, io.Closer, error) {
		s, closer, err := open(partition)
		if err != nil {
			return nil, nil, err
		}

		engineOpts := append([]engine.Option{engine.WithPartition(partition)}, opts...)
		eng, err := engine.New(s, registry, engineOpts...)
		if err != nil {
			if closer != nil {
				err = errors.Join(err, closer.Close())
			}
			return nil, nil, err
		}
		return eng, closer, nil
	}
}

// Worker is one partition of the pool and the engine serving it.
type Worker struct {
	Partition int
	Engine    *engine.Engine
}

// Pool is a fixed set of workers created up front. Requests are assigned
// statically by sequence number; there is no rebalancing.
type Pool struct {
	workers []Worker
	closers []io.Closer
}

// NewPool builds n workers, one per partition 0..n-1.
func NewPool(n int, factory EngineFactory) (*Pool, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, n)
	}
	if factory == nil {
		return nil, errors.New("nil engine factory")
	}

	p := &Pool{workers: make([]Worker, 0, n)}
	for partition := 0; partition < n; partition++ {
		eng, closer, err := factory(partition)
		if closer != nil {
			p.closers = append(p.closers, closer)
		}
		if err == nil && eng == nil {
			err = engine.ErrNilStore
		}
		if err != nil {
			err = fmt.Errorf("build engine for partition %d: %w", partition, err)
			return nil, errors.Join(err, p.Close())
		}
		p.workers = append(p.workers, Worker{Partition: partition, Engine: eng})
	}
	return p, nil
}

// Partition maps a sequence number onto one of n partitions.
func Partition(seq, n int) int {
	return seq % n
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// For returns the worker that handles sequence number seq.
func (p *Pool) For(seq int) Worker {
	return p.workers[Partition(seq, len(p.workers))]
}

// Close releases every resource the factory handed back, in reverse
// creation order, and returns the joined errors.
func (p *Pool) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}
