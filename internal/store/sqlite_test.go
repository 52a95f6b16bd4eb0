package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_AppliesMigrations(t *testing.T) {
	s := setupSQLite(t)

	v, err := s.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, v)
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.db")
	ctx := context.Background()

	s1, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s1.Seed(ctx, 0, testAccounts()))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	acct, err := s2.Partition(0).GetAccount(ctx, "1001")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(200)))
}

func TestSQLiteStore_SeedDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	s := setupSQLite(t)
	p := s.Partition(0)

	require.NoError(t, s.Seed(ctx, 0, testAccounts()))
	acct, err := p.GetAccount(ctx, "1001")
	require.NoError(t, err)
	require.NoError(t, p.UpdateAccount(ctx, acct.Debit(decimal.NewFromInt(25))))

	require.NoError(t, s.Seed(ctx, 0, testAccounts()))

	got, err := p.GetAccount(ctx, "1001")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(175)))
}

func TestSQLiteStore_PartitionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := setupSQLite(t)
	require.NoError(t, s.Seed(ctx, 0, testAccounts()))

	_, err := s.Partition(1).GetAccount(ctx, "1001")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
