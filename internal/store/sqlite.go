package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/roach88/paysim/internal/payment"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial accounts table
// 1 - Added index on (partition_id, status)
const currentSchemaVersion = 1

// SQLiteStore keeps accounts for every partition in one SQLite database.
// Use Partition to obtain an AccountStore bound to a single partition.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Seed inserts accounts into a partition. Existing rows are left untouched,
// so seeding an already populated partition is a no-op.
func (s *SQLiteStore) Seed(ctx context.Context, partition int, accounts []payment.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed partition %d: %w", partition, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accounts (partition_id, id, balance, status, schemes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(partition_id, id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("seed partition %d: %w", partition, err)
	}
	defer stmt.Close()

	for _, acct := range accounts {
		if _, err := stmt.ExecContext(ctx, partition, acct.ID, acct.Balance.String(), int(acct.Status), int(acct.AllowedSchemes)); err != nil {
			return fmt.Errorf("seed account %s: %w", acct.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed partition %d: %w", partition, err)
	}
	return nil
}

// Partition returns an AccountStore scoped to one partition.
func (s *SQLiteStore) Partition(partition int) *SQLitePartition {
	return &SQLitePartition{db: s.db, partition: partition}
}

// SQLitePartition is the AccountStore view of one partition.
type SQLitePartition struct {
	db        *sql.DB
	partition int
}

// GetAccount implements AccountStore.
func (p *SQLitePartition) GetAccount(ctx context.Context, id string) (payment.Account, error) {
	var (
		balance string
		status  int
		schemes int
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT balance, status, schemes FROM accounts
		WHERE partition_id = ? AND id = ?
	`, p.partition, id).Scan(&balance, &status, &schemes)
	if errors.Is(err, sql.ErrNoRows) {
		return payment.Account{}, fmt.Errorf("get account %s: %w", id, ErrAccountNotFound)
	}
	if err != nil {
		return payment.Account{}, fmt.Errorf("get account %s: %w", id, err)
	}

	bal, err := decimal.NewFromString(balance)
	if err != nil {
		return payment.Account{}, fmt.Errorf("get account %s: corrupt balance %q: %w", id, balance, err)
	}

	return payment.Account{
		ID:             id,
		Balance:        bal,
		Status:         payment.AccountStatus(status),
		AllowedSchemes: payment.AllowedSchemes(schemes),
	}, nil
}

// UpdateAccount implements AccountStore.
func (p *SQLitePartition) UpdateAccount(ctx context.Context, acct payment.Account) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE accounts SET balance = ?, status = ?, schemes = ?
		WHERE partition_id = ? AND id = ?
	`, acct.Balance.String(), int(acct.Status), int(acct.AllowedSchemes), p.partition, acct.ID)
	if err != nil {
		return fmt.Errorf("update account %s: %w", acct.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account %s: %w", acct.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update account %s: %w", acct.ID, ErrAccountNotFound)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_accounts_partition_status
		ON accounts(partition_id, status)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// schemaVersion reports PRAGMA user_version. Used for testing.
func (s *SQLiteStore) schemaVersion() (int, error) {
	var v int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("query user_version: %w", err)
	}
	return v, nil
}
