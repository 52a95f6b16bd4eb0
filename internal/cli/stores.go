package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roach88/paysim/internal/payment"
	"github.com/roach88/paysim/internal/simulation"
	"github.com/roach88/paysim/internal/store"
)

// Store backends selectable with --store.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// StoreOptions selects and configures the account store backend.
type StoreOptions struct {
	Backend     string
	Database    string
	RedisAddr   string
	LatencyMin  time.Duration
	LatencyMax  time.Duration
	FailureRate float64
}

// storeBackend opens per-partition stores for one command run and owns
// any shared connection behind them.
type storeBackend struct {
	open  simulation.StoreOpener
	close func() error
}

// openBackend prepares the configured backend. Every partition is seeded
// with accounts when it is first opened.
func openBackend(ctx context.Context, opts StoreOptions, accounts []payment.Account, logger *slog.Logger) (*storeBackend, error) {
	switch opts.Backend {
	case BackendMemory, "":
		memOpts := []store.MemoryOption{
			store.WithLatency(opts.LatencyMin, opts.LatencyMax),
			store.WithFailureRate(opts.FailureRate),
		}
		return &storeBackend{
			open: func(partition int) (store.AccountStore, io.Closer, error) {
				return store.NewMemoryStore(partition, accounts, memOpts...), nil, nil
			},
			close: func() error { return nil },
		}, nil

	case BackendSQLite:
		logger.Info("opening database", "path", opts.Database)
		db, err := store.OpenSQLite(opts.Database)
		if err != nil {
			return nil, err
		}
		return &storeBackend{
			open: func(partition int) (store.AccountStore, io.Closer, error) {
				if err := db.Seed(ctx, partition, accounts); err != nil {
					return nil, nil, err
				}
				return db.Partition(partition), nil, nil
			},
			close: db.Close,
		}, nil

	case BackendRedis:
		logger.Info("connecting to redis", "addr", opts.RedisAddr)
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", opts.RedisAddr, err)
		}
		return &storeBackend{
			open: func(partition int) (store.AccountStore, io.Closer, error) {
				s := store.NewRedisStore(client, partition)
				if err := s.Seed(ctx, accounts); err != nil {
					return nil, nil, err
				}
				return s, nil, nil
			},
			close: client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s, %s or %s)",
			opts.Backend, BackendMemory, BackendSQLite, BackendRedis)
	}
}
