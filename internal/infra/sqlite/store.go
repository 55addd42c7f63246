// Package sqlite implements the persistence ports on an embedded SQLite
// database. Ledger writes run inside real database transactions so a failed
// operation leaves no partial state behind.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/fintrack-app/fintrack-api/internal/port"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite handle and implements the persistence ports.
//
// SQLite allows a single writer at a time; the mutex serializes write
// transactions up front instead of bouncing them off SQLITE_BUSY.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the database at path and applies the
// schema. Foreign keys are enforced and WAL mode keeps readers unblocked
// during writes.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every pooled connection to a :memory: database sees its own empty
	// database, so the pool is capped at a single connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable. Used by readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS wallets (
		id              TEXT PRIMARY KEY,
		owner_id        TEXT NOT NULL,
		name            TEXT NOT NULL,
		account_label   TEXT NOT NULL DEFAULT '',
		description     TEXT NOT NULL DEFAULT '',
		balance         TEXT NOT NULL,
		initial_balance TEXT NOT NULL,
		created_at      TIMESTAMP NOT NULL,
		updated_at      TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_wallets_owner ON wallets(owner_id);

	CREATE TABLE IF NOT EXISTS transactions (
		id         TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		wallet_id  TEXT NOT NULL REFERENCES wallets(id),
		type       TEXT NOT NULL CHECK (type IN ('INCOME', 'EXPENSE')),
		amount     TEXT NOT NULL,
		category   TEXT NOT NULL DEFAULT '',
		date       TIMESTAMP NOT NULL,
		note       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_owner ON transactions(owner_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_wallet_date ON transactions(wallet_id, date);
	CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(owner_id, category, date);

	CREATE TABLE IF NOT EXISTS budgets (
		id         TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		category   TEXT NOT NULL,
		month      INTEGER NOT NULL,
		year       INTEGER NOT NULL,
		amount     TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (owner_id, category, month, year)
	);

	CREATE TABLE IF NOT EXISTS goals (
		id             TEXT PRIMARY KEY,
		owner_id       TEXT NOT NULL,
		name           TEXT NOT NULL,
		target_amount  TEXT NOT NULL,
		current_amount TEXT NOT NULL,
		deadline       TIMESTAMP NOT NULL,
		status         TEXT NOT NULL,
		created_at     TIMESTAMP NOT NULL,
		updated_at     TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_goals_owner ON goals(owner_id);

	CREATE TABLE IF NOT EXISTS dishes (
		id             TEXT PRIMARY KEY,
		owner_id       TEXT NOT NULL,
		name           TEXT NOT NULL,
		estimated_cost TEXT NOT NULL,
		category       TEXT NOT NULL DEFAULT '',
		note           TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_dishes_owner ON dishes(owner_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// WithTx runs fn inside one database transaction. The mutex serializes
// writers; the deferred rollback is a no-op after a successful commit.
func (s *Store) WithTx(ctx context.Context, fn func(tx port.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&ledgerTx{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// querier is satisfied by both *sql.DB and *sql.Tx so the row scanners can
// serve reads inside and outside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
