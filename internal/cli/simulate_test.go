package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paysim/internal/store"
)

// simulateEvent is the union of every JSON line simulate writes.
type simulateEvent struct {
	Event    string           `json:"event"`
	Recorded int              `json:"recorded"`
	Total    int              `json:"total"`
	Counts   map[string]int64 `json:"counts"`
}

func decodeEvents(t *testing.T, out string) []simulateEvent {
	t.Helper()

	var events []simulateEvent
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var ev simulateEvent
		require.NoError(t, dec.Decode(&ev))
		events = append(events, ev)
	}
	return events
}

func sumCounts(counts map[string]int64) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}

func TestSimulate_TextOutput(t *testing.T) {
	stdout, stderr, err := execute(t, "simulate", "-n", "2", "-t", "20", "--seed", "1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Simulation complete. Transactions: 20 of 20 recorded")
	assert.Contains(t, stdout, "Outcomes: ")
	assert.Contains(t, stderr, "simulation started")
	assert.Contains(t, stderr, "simulation finished")
}

func TestSimulate_JSONOutput(t *testing.T) {
	stdout, _, err := execute(t, "simulate", "-n", "3", "-t", "30", "--seed", "9", "--format", "json")
	require.NoError(t, err)

	events := decodeEvents(t, stdout)
	require.GreaterOrEqual(t, len(events), 2)

	final := events[len(events)-2]
	assert.Equal(t, "final", final.Event)
	assert.Equal(t, 30, final.Recorded)
	assert.Equal(t, 30, final.Total)

	outcomes := events[len(events)-1]
	assert.Equal(t, "outcomes", outcomes.Event)
	assert.Equal(t, int64(30), sumCounts(outcomes.Counts))
}

func TestSimulate_FailureRateOnlyProducesStoreFailures(t *testing.T) {
	stdout, _, err := execute(t, "simulate", "-n", "2", "-t", "40", "--seed", "3",
		"--failure-rate", "1", "--format", "json")
	require.NoError(t, err)

	events := decodeEvents(t, stdout)
	outcomes := events[len(events)-1]
	require.Equal(t, "outcomes", outcomes.Event)
	assert.NotContains(t, outcomes.Counts, "authorized")
	assert.Equal(t, int64(40), sumCounts(outcomes.Counts))
}

func TestSimulate_SQLiteBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "paysim.db")

	stdout, stderr, err := execute(t, "simulate", "-n", "2", "-t", "10", "--seed", "5",
		"--store", "sqlite", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Simulation complete. Transactions: 10 of 10 recorded")
	assert.Contains(t, stderr, "opening database")

	db, err := store.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer db.Close()

	for partition := 0; partition < 2; partition++ {
		acct, err := db.Partition(partition).GetAccount(context.Background(), "1003")
		require.NoError(t, err, "partition %d seeded", partition)
		assert.Equal(t, "1003", acct.ID)
	}
}

func TestSimulate_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	stdout, _, err := execute(t, "simulate", "-n", "2", "-t", "10", "--seed", "5",
		"--store", "redis", "--redis-addr", mr.Addr())
	require.NoError(t, err)
	assert.Contains(t, stdout, "Simulation complete. Transactions: 10 of 10 recorded")

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	for partition := 0; partition < 2; partition++ {
		s := store.NewRedisStore(client, partition)
		_, err := s.GetAccount(context.Background(), "2001")
		assert.NoError(t, err, "partition %d seeded", partition)
	}
}

func TestSimulate_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, err := execute(t, "simulate", "-n", "1", "-t", "1", "--store", "redis", "--redis-addr", addr)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to open store")
}

func TestSimulate_UnknownBackend(t *testing.T) {
	_, _, err := execute(t, "simulate", "-t", "1", "--store", "postgres")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `unknown store backend "postgres"`)
}

func TestSimulate_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero workers", []string{"simulate", "-n", "0", "-t", "10"}},
		{"negative transactions", []string{"simulate", "-n", "1", "--transactions=-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), "invalid simulation parameters")
		})
	}
}

func TestSimulate_FixtureFromFile(t *testing.T) {
	fixture := writeFile(t, t.TempDir(), "accounts.yaml", `accounts:
  - id: "1001"
    balance: "1000000000"
    status: Live
    schemes: [FasterPayments, Bacs, Chaps]
`)

	stdout, _, err := execute(t, "simulate", "-n", "1", "-t", "5", "--seed", "2", "--accounts", fixture, "--format", "json")
	require.NoError(t, err)

	events := decodeEvents(t, stdout)
	final := events[len(events)-2]
	assert.Equal(t, "final", final.Event)
	assert.Equal(t, 5, final.Recorded)
}

func TestSimulate_MissingFixture(t *testing.T) {
	_, _, err := execute(t, "simulate", "-t", "1", "--accounts", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load accounts")
}

func TestSimulate_CancelledContextReportsPartialRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout strings.Builder
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&strings.Builder{})
	cmd.SetArgs([]string{"simulate", "-n", "2", "-t", "100", "--seed", "1"})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, stdout.String(), "Simulation complete. Transactions: 0 of 100 recorded")
}
