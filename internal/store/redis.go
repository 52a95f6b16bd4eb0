package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/roach88/paysim/internal/payment"
)

// updateScript writes the account hash only if it already exists, so an
// update can never create an account.
var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'balance', ARGV[1], 'status', ARGV[2], 'schemes', ARGV[3])
return 1
`)

// RedisStore is an AccountStore backed by Redis hashes, scoped to one
// partition.
type RedisStore struct {
	client    redis.UniversalClient
	partition int
}

// NewRedisStore returns a store for partition using client.
// The client is shared; closing it is the caller's responsibility.
func NewRedisStore(client redis.UniversalClient, partition int) *RedisStore {
	return &RedisStore{client: client, partition: partition}
}

// AccountKey returns the hash key holding an account.
func AccountKey(partition int, id string) string {
	return fmt.Sprintf("paysim:p%d:account:%s", partition, id)
}

// Seed writes accounts into the partition, replacing existing values.
func (s *RedisStore) Seed(ctx context.Context, accounts []payment.Account) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, acct := range accounts {
			pipe.HSet(ctx, AccountKey(s.partition, acct.ID),
				"balance", acct.Balance.String(),
				"status", int(acct.Status),
				"schemes", int(acct.AllowedSchemes),
			)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed partition %d: %w", s.partition, err)
	}
	return nil
}

// GetAccount implements AccountStore.
func (s *RedisStore) GetAccount(ctx context.Context, id string) (payment.Account, error) {
	fields, err := s.client.HGetAll(ctx, AccountKey(s.partition, id)).Result()
	if err != nil {
		return payment.Account{}, fmt.Errorf("get account %s: %w", id, err)
	}
	if len(fields) == 0 {
		return payment.Account{}, fmt.Errorf("get account %s: %w", id, ErrAccountNotFound)
	}

	bal, err := decimal.NewFromString(fields["balance"])
	if err != nil {
		return payment.Account{}, fmt.Errorf("get account %s: corrupt balance: %w", id, err)
	}
	status, err := strconv.Atoi(fields["status"])
	if err != nil {
		return payment.Account{}, fmt.Errorf("get account %s: corrupt status: %w", id, err)
	}
	schemes, err := strconv.Atoi(fields["schemes"])
	if err != nil {
		return payment.Account{}, fmt.Errorf("get account %s: corrupt schemes: %w", id, err)
	}

	return payment.Account{
		ID:             id,
		Balance:        bal,
		Status:         payment.AccountStatus(status),
		AllowedSchemes: payment.AllowedSchemes(schemes),
	}, nil
}

// UpdateAccount implements AccountStore.
func (s *RedisStore) UpdateAccount(ctx context.Context, acct payment.Account) error {
	n, err := updateScript.Run(ctx, s.client,
		[]string{AccountKey(s.partition, acct.ID)},
		acct.Balance.String(), int(acct.Status), int(acct.AllowedSchemes),
	).Int()
	if err != nil {
		return fmt.Errorf("update account %s: %w", acct.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update account %s: %w", acct.ID, ErrAccountNotFound)
	}
	return nil
}
