package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paysim/internal/payment"
)

func testAccounts() []payment.Account {
	return []payment.Account{
		{
			ID:             "1001",
			Balance:        decimal.NewFromInt(200),
			Status:         payment.Live,
			AllowedSchemes: payment.AllowedSchemesOf(payment.Bacs, payment.Chaps),
		},
		{
			ID:             "1005",
			Balance:        decimal.RequireFromString("3520000.50"),
			Status:         payment.Disabled,
			AllowedSchemes: payment.AllowedSchemesOf(payment.Bacs),
		},
	}
}

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// backends returns every AccountStore implementation seeded with
// testAccounts for partition 0.
func backends(t *testing.T) map[string]AccountStore {
	t.Helper()
	ctx := context.Background()

	sqlite := setupSQLite(t)
	require.NoError(t, sqlite.Seed(ctx, 0, testAccounts()))

	_, client := setupRedis(t)
	rs := NewRedisStore(client, 0)
	require.NoError(t, rs.Seed(ctx, testAccounts()))

	return map[string]AccountStore{
		"memory": NewMemoryStore(0, testAccounts()),
		"sqlite": sqlite.Partition(0),
		"redis":  rs,
	}
}

func assertAccountEqual(t *testing.T, want, got payment.Account) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.Balance.Equal(got.Balance), "balance: want %s, got %s", want.Balance, got.Balance)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.AllowedSchemes, got.AllowedSchemes)
}
